package models

// SerializedUserSettingsVersion is written into every blob.
const SerializedUserSettingsVersion = 1

// SerializedUserSettings is the at-rest shape of UserSettings. Keys are base64
// encoded. Preference fields are optional so blobs written by older builds
// still merge over the defaults.
type SerializedUserSettings struct {
	Version    int    `json:"version"`
	UserID     string `json:"userId"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
	PreferencesPatch
}

// StoredSettings is what a blob deserializes into.
type StoredSettings struct {
	Identity    Identity
	Preferences PreferencesPatch
}
