package camera

import "testing"

func TestConfig_Validate(t *testing.T) {
	if errs := DefaultConfig().Validate(); len(errs) != 0 {
		t.Errorf("default config invalid: %v", errs)
	}

	bad := Config{Width: 0, Height: 720, Framerate: 120, Quality: 0}
	errs := bad.Validate()
	if len(errs) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(errs), errs)
	}
}

func TestManager_SetConfigRejectsInvalid(t *testing.T) {
	m := NewManager()
	if err := m.SetConfig(Config{}); err == nil {
		t.Error("expected validation error")
	}
	if got := m.GetConfig(); got != DefaultConfig() {
		t.Errorf("rejected config must not be stored: %+v", got)
	}
}

func TestManager_SetConfigNotifies(t *testing.T) {
	m := NewManager()
	var applied Config
	m.OnConfigChange = func(cfg Config) error {
		applied = cfg
		return nil
	}

	want := LowLatencyConfig()
	if err := m.SetConfig(want); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if applied != want {
		t.Errorf("callback got %+v, want %+v", applied, want)
	}
	if m.GetConfig() != want {
		t.Errorf("stored config %+v, want %+v", m.GetConfig(), want)
	}
}
