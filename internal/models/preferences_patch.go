package models

import "fmt"

// PreferencesPatch is a partial Preferences. Nil fields are left alone when applied.
//
// Host payloads and user updates decode into this type, so identity fields sent
// alongside them are dropped.
type PreferencesPatch struct {
	CustomUsername               *string    `json:"customUsername,omitempty"`
	ColorMode                    *ColorMode `json:"colorMode,omitempty"`
	PlaySoundOnNewMessage        *bool      `json:"playSoundOnNewMessage,omitempty"`
	ShowNotificationOnNewMessage *bool      `json:"showNotificationOnNewMessage,omitempty"`
	ShowActiveTypingStatus       *bool      `json:"showActiveTypingStatus,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p PreferencesPatch) IsEmpty() bool {
	return p.CustomUsername == nil &&
		p.ColorMode == nil &&
		p.PlaySoundOnNewMessage == nil &&
		p.ShowNotificationOnNewMessage == nil &&
		p.ShowActiveTypingStatus == nil
}

// Then composes p with next; fields set in next win.
func (p PreferencesPatch) Then(next PreferencesPatch) PreferencesPatch {
	if next.CustomUsername != nil {
		p.CustomUsername = next.CustomUsername
	}
	if next.ColorMode != nil {
		p.ColorMode = next.ColorMode
	}
	if next.PlaySoundOnNewMessage != nil {
		p.PlaySoundOnNewMessage = next.PlaySoundOnNewMessage
	}
	if next.ShowNotificationOnNewMessage != nil {
		p.ShowNotificationOnNewMessage = next.ShowNotificationOnNewMessage
	}
	if next.ShowActiveTypingStatus != nil {
		p.ShowActiveTypingStatus = next.ShowActiveTypingStatus
	}
	return p
}

// Validate rejects values the UI cannot render.
func (p PreferencesPatch) Validate() error {
	if p.ColorMode != nil && !p.ColorMode.Valid() {
		return fmt.Errorf("color mode must be 'light' or 'dark', got %q", *p.ColorMode)
	}
	return nil
}

// PatchFrom returns a patch that sets every field of prefs.
func PatchFrom(prefs Preferences) PreferencesPatch {
	return PreferencesPatch{
		CustomUsername:               &prefs.CustomUsername,
		ColorMode:                    &prefs.ColorMode,
		PlaySoundOnNewMessage:        &prefs.PlaySoundOnNewMessage,
		ShowNotificationOnNewMessage: &prefs.ShowNotificationOnNewMessage,
		ShowActiveTypingStatus:       &prefs.ShowActiveTypingStatus,
	}
}
