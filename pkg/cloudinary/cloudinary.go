package cloudinary

import (
	"fmt"

	"github.com/kiritara/resort-admin/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// InitCloudinary builds the upload client from configuration. Gallery
// uploads fail at request time if the credentials are blank, so a
// missing secret is reported here instead.
func InitCloudinary(cfg *config.Config) (*cloudinary.Cloudinary, error) {
	if cfg.CLOUDINARY_CLOUD == "" || cfg.CLOUDINARY_API_KEY == "" || cfg.CLOUDINARY_API_SECRET == "" {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CLOUDINARY_CLOUD, cfg.CLOUDINARY_API_KEY, cfg.CLOUDINARY_API_SECRET)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return cld, nil
}
