// Sensor replay - feeds recorded orientation samples into a running
// leveler over the /ws/orientation websocket.
//
// The input file holds one JSON sample per line ({"pitch": ..., "roll":
// ...}), as captured from a browser's deviceorientation events. Useful for
// tuning the smoothing dials without holding a phone.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "leveler dashboard address")
	file := flag.String("file", "", "sample file, one JSON sample per line")
	rate := flag.Int("rate", 60, "samples per second")
	loop := flag.Bool("loop", false, "replay the file forever")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: sensor-replay -file samples.jsonl [-addr host:port] [-rate hz] [-loop]")
		os.Exit(1)
	}

	url := fmt.Sprintf("ws://%s/ws/orientation", *addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("📡 Streaming %s to %s at %d Hz\n", *file, url, *rate)

	interval := time.Second / time.Duration(*rate)
	sent := 0

	for {
		n, err := replayFile(conn, *file, interval)
		if err != nil {
			fmt.Fprintf(os.Stderr, "replay: %v\n", err)
			os.Exit(1)
		}
		sent += n
		if !*loop {
			break
		}
	}

	fmt.Printf("✅ Sent %d samples\n", sent)
}

// replayFile streams every line of the file as one websocket message.
func replayFile(conn *websocket.Conn, path string, interval time.Duration) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sent := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, line); err != nil {
			return sent, err
		}
		sent++
		time.Sleep(interval)
	}
	return sent, scanner.Err()
}
