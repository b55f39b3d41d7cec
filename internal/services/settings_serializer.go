package services

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"chatterbox/internal/errs"
	"chatterbox/internal/models"
)

type SettingsSerializer interface {
	Serialize(settings models.UserSettings) ([]byte, error)
	// Deserialize fails with errs.ErrSettingsCorrupted on any malformed blob.
	Deserialize(blob []byte) (models.StoredSettings, error)
}

// JSONSettingsSerializer writes models.SerializedUserSettings as JSON.
type JSONSettingsSerializer struct{}

func NewJSONSettingsSerializer() *JSONSettingsSerializer {
	return &JSONSettingsSerializer{}
}

func (JSONSettingsSerializer) Serialize(settings models.UserSettings) ([]byte, error) {
	if settings.UserID == "" {
		return nil, errors.New("user id is required")
	}
	out := models.SerializedUserSettings{
		Version:          models.SerializedUserSettingsVersion,
		UserID:           settings.UserID,
		PublicKey:        base64.StdEncoding.EncodeToString(settings.PublicKey),
		PrivateKey:       base64.StdEncoding.EncodeToString(settings.PrivateKey),
		PreferencesPatch: models.PatchFrom(settings.Preferences),
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}

func (JSONSettingsSerializer) Deserialize(blob []byte) (models.StoredSettings, error) {
	var in models.SerializedUserSettings
	if err := json.Unmarshal(blob, &in); err != nil {
		return models.StoredSettings{}, errs.SettingsCorrupted(err)
	}
	if in.UserID == "" {
		return models.StoredSettings{}, errs.SettingsCorrupted(errors.New("missing user id"))
	}
	pub, err := decodeKey("public key", in.PublicKey)
	if err != nil {
		return models.StoredSettings{}, err
	}
	priv, err := decodeKey("private key", in.PrivateKey)
	if err != nil {
		return models.StoredSettings{}, err
	}
	if err := in.PreferencesPatch.Validate(); err != nil {
		return models.StoredSettings{}, errs.SettingsCorrupted(err)
	}
	return models.StoredSettings{
		Identity: models.Identity{
			UserID:     in.UserID,
			PublicKey:  pub,
			PrivateKey: priv,
		},
		Preferences: in.PreferencesPatch,
	}, nil
}

func decodeKey(name, encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, errs.SettingsCorrupted(fmt.Errorf("missing %s", name))
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errs.SettingsCorrupted(fmt.Errorf("decode %s: %w", name, err))
	}
	return key, nil
}
