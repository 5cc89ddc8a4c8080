package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"example.com/eblanshell/pkg/keys"
	"gopkg.in/yaml.v3"
)

// Editor actions that can be rebound in the keymap.
const (
	ActionInsert     = "insert"
	ActionQuit       = "quit"
	ActionSave       = "save"
	ActionDeleteLine = "delete-line"
)

var actions = []string{ActionInsert, ActionQuit, ActionSave, ActionDeleteLine}

// Keybinding represents a single key: either a printable character or a
// Ctrl+<letter> combination.
type Keybinding struct {
	Kind keys.Kind
	Char rune
}

// Keymap maps editor actions to their bindings.
type Keymap map[string]Keybinding

// LogConfig controls the structured event log.
type LogConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	File    string `yaml:"file,omitempty"`
	Level   string `yaml:"level,omitempty"`
}

// Config holds user configuration values.
type Config struct {
	Username string            `yaml:"username,omitempty"`
	Theme    string            `yaml:"theme,omitempty"`
	Colors   map[string]string `yaml:"colors,omitempty"`
	Keymap   Keymap            `yaml:"keymap,omitempty"`
	Log      LogConfig         `yaml:"log,omitempty"`
}

// Default returns a Config with default key mappings.
func Default() *Config {
	return &Config{Theme: "default", Keymap: DefaultKeymap()}
}

// DefaultKeymap provides builtin editor bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		ActionInsert:     mustParse("i"),
		ActionQuit:       mustParse("q"),
		ActionSave:       mustParse("Ctrl+S"),
		ActionDeleteLine: mustParse("Ctrl+D"),
	}
}

// Load loads configuration from the provided path. If the file does not
// exist, defaults are returned. Keymap entries in the file override the
// defaults one by one.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for action, kb := range file.Keymap {
		cfg.Keymap[action] = kb
	}
	if err := cfg.Keymap.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Username = file.Username
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	cfg.Colors = file.Colors
	cfg.Log = file.Log
	return cfg, nil
}

// DefaultPath returns ~/.eblanshell/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".eblanshell", "config.yaml")
	}
	return filepath.Join(home, ".eblanshell", "config.yaml")
}

// LoadDefault attempts to read the config at DefaultPath.
func LoadDefault() (*Config, error) {
	return Load(DefaultPath())
}

// Save writes cfg to path, creating the parent directory when needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects unknown actions and keys bound to more than one action.
func (km Keymap) Validate() error {
	seen := make(map[Keybinding]string, len(km))
	for action, kb := range km {
		if !isAction(action) {
			return errors.New("unknown keymap action: " + action)
		}
		if other, ok := seen[kb]; ok {
			return fmt.Errorf("keybinding %s bound to both %s and %s", kb, other, action)
		}
		seen[kb] = action
	}
	return nil
}

// Action returns the action bound to ev, if any.
func (km Keymap) Action(ev keys.Event) (string, bool) {
	for _, action := range actions {
		if kb, ok := km[action]; ok && kb.Matches(ev) {
			return action, true
		}
	}
	return "", false
}

func isAction(name string) bool {
	for _, a := range actions {
		if a == name {
			return true
		}
	}
	return false
}

// Control letters the terminal reports as other keys (Backspace, Tab,
// Enter); bindings to them would never fire.
const reservedControls = "him"

// ParseKeybinding converts a textual key description into a Keybinding.
// "Ctrl+S" yields a control combination; a single printable character such
// as "q" yields a plain key. Letters are stored in lower case and match
// either case.
func ParseKeybinding(s string) (Keybinding, error) {
	if r := []rune(s); len(r) == 1 {
		if r[0] < 32 || r[0] > 126 {
			return Keybinding{}, errors.New("invalid key in keybinding: " + s)
		}
		return Keybinding{Kind: keys.KindPrintable, Char: unicode.ToLower(r[0])}, nil
	}
	parts := strings.Split(s, "+")
	if len(parts) != 2 {
		return Keybinding{}, errors.New("invalid keybinding: " + s)
	}
	if !strings.EqualFold(parts[0], "ctrl") {
		return Keybinding{}, errors.New("invalid modifier in keybinding: " + s)
	}
	r := []rune(strings.ToLower(parts[1]))
	if len(r) != 1 || r[0] < 'a' || r[0] > 'z' {
		return Keybinding{}, errors.New("invalid key in keybinding: " + s)
	}
	if strings.ContainsRune(reservedControls, r[0]) {
		return Keybinding{}, errors.New("keybinding is reported as another key by terminals: " + s)
	}
	return Keybinding{Kind: keys.KindControl, Char: r[0]}, nil
}

func mustParse(s string) Keybinding {
	kb, err := ParseKeybinding(s)
	if err != nil {
		panic(err)
	}
	return kb
}

// Matches returns true if the binding matches the provided event.
func (k Keybinding) Matches(ev keys.Event) bool {
	return k.Kind == ev.Kind && k.Char == unicode.ToLower(ev.Char)
}

func (k Keybinding) String() string {
	if k.Kind == keys.KindControl {
		return "Ctrl+" + strings.ToUpper(string(k.Char))
	}
	return string(k.Char)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Keybinding) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	kb, err := ParseKeybinding(s)
	if err != nil {
		return err
	}
	*k = kb
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k Keybinding) MarshalYAML() (any, error) {
	return k.String(), nil
}
