package models

// ColorMode is the UI theme a user picked.
type ColorMode string

const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// Valid reports whether m is one of the known color modes.
func (m ColorMode) Valid() bool {
	return m == ColorModeLight || m == ColorModeDark
}

// Identity is created once per user and never changes afterwards.
type Identity struct {
	UserID     string `json:"userId"`
	PublicKey  []byte `json:"publicKey"`
	PrivateKey []byte `json:"privateKey"`
}

// IsZero reports whether the identity has not been generated yet.
func (i Identity) IsZero() bool {
	return i.UserID == "" && len(i.PublicKey) == 0 && len(i.PrivateKey) == 0
}

// Clone returns a copy that does not share key buffers with i.
func (i Identity) Clone() Identity {
	return Identity{
		UserID:     i.UserID,
		PublicKey:  append([]byte(nil), i.PublicKey...),
		PrivateKey: append([]byte(nil), i.PrivateKey...),
	}
}

// Preferences holds everything a user (or a host page) may change.
type Preferences struct {
	CustomUsername               string    `json:"customUsername"`
	ColorMode                    ColorMode `json:"colorMode"`
	PlaySoundOnNewMessage        bool      `json:"playSoundOnNewMessage"`
	ShowNotificationOnNewMessage bool      `json:"showNotificationOnNewMessage"`
	ShowActiveTypingStatus       bool      `json:"showActiveTypingStatus"`
}

// DefaultPreferences returns the preferences a brand new user starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		CustomUsername:               "",
		ColorMode:                    ColorModeDark,
		PlaySoundOnNewMessage:        true,
		ShowNotificationOnNewMessage: true,
		ShowActiveTypingStatus:       true,
	}
}

// Apply returns p with every field set in patch overridden.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.CustomUsername != nil {
		p.CustomUsername = *patch.CustomUsername
	}
	if patch.ColorMode != nil {
		p.ColorMode = *patch.ColorMode
	}
	if patch.PlaySoundOnNewMessage != nil {
		p.PlaySoundOnNewMessage = *patch.PlaySoundOnNewMessage
	}
	if patch.ShowNotificationOnNewMessage != nil {
		p.ShowNotificationOnNewMessage = *patch.ShowNotificationOnNewMessage
	}
	if patch.ShowActiveTypingStatus != nil {
		p.ShowActiveTypingStatus = *patch.ShowActiveTypingStatus
	}
	return p
}

// UserSettings is the combined view handed to the UI.
type UserSettings struct {
	Identity
	Preferences
}

// NewUserSettings combines an identity with preferences.
func NewUserSettings(id Identity, prefs Preferences) UserSettings {
	return UserSettings{Identity: id, Preferences: prefs}
}

// Clone returns a deep copy of s.
func (s UserSettings) Clone() UserSettings {
	return UserSettings{Identity: s.Identity.Clone(), Preferences: s.Preferences}
}

// Merge applies patch on top of s. Identity fields are untouched.
func (s UserSettings) Merge(patch PreferencesPatch) UserSettings {
	return UserSettings{Identity: s.Identity.Clone(), Preferences: s.Preferences.Apply(patch)}
}
