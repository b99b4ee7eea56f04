package prefs

import "log/slog"

const (
	ThemeKey   = "theme"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme reads and toggles the persisted light/dark preference.
type Theme struct {
	store Store
	dark  bool
}

// LoadTheme reads the preference once; anything but "dark" is light.
func LoadTheme(store Store) *Theme {
	v, _ := store.Get(ThemeKey)
	return &Theme{store: store, dark: v == ThemeDark}
}

func (t *Theme) IsDark() bool {
	return t.dark
}

func (t *Theme) Name() string {
	if t.dark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips the theme and persists it. The in-memory theme flips even if
// persisting fails.
func (t *Theme) Toggle() error {
	t.dark = !t.dark
	if err := t.store.Set(ThemeKey, t.Name()); err != nil {
		slog.Warn("Failed to persist theme", "theme", t.Name(), "error", err.Error())
		return err
	}
	return nil
}
