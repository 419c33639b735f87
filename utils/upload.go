package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"home-services-server/config"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

// ValidateImageFile checks extension and size of an uploaded image
func ValidateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > maxImageSize {
		return false
	}
	switch strings.ToLower(filepath.Ext(h.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// RandomImageToken returns a random hex token used as the stored image name,
// so uploaded filenames never leak into storage paths.
func RandomImageToken() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// UploadProfilePicture stores an image under a random public ID and returns
// its URL. Requires Cloudinary credentials in the environment.
func UploadProfilePicture(ctx context.Context, header *multipart.FileHeader, userID uint) (string, error) {
	cfg := config.AppConfig.Cloudinary
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return "", fmt.Errorf("cloudinary is not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	token, err := RandomImageToken()
	if err != nil {
		return "", err
	}

	overwrite := true
	up, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       fmt.Sprintf("users/profile_pictures/%d", userID),
		PublicID:     token,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}

	return up.SecureURL, nil
}
