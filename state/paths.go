package state

import (
	"path/filepath"
)

// TailwindConfigPath returns Tailwind configuration requested on command
// line or in configuration file resolved against working directory. Empty
// string means none was requested.
func (e *LocalEnv) TailwindConfigPath() string {
	p := e.TailwindConfig
	if p == "" && e.Cfg != nil {
		p = e.Cfg.Build.Tailwind.Config
	}
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// OutputPath returns destination of produced style map.
func (e *LocalEnv) OutputPath() string {
	p := e.Output
	if p == "" && e.Cfg != nil {
		p = e.Cfg.Build.Output
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
