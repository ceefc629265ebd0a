package imagepkg

import (
	"fmt"
	"image"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultAssetCacheSize = 16

// AssetLoader decodes template and logo files once and keeps them for the
// life of the process. Failed loads are not cached, so fixing a file on disk
// takes effect on the next request.
type AssetLoader struct {
	cache *lru.Cache[string, image.Image]
}

// NewAssetLoader creates a loader caching up to size decoded assets.
func NewAssetLoader(size int) (*AssetLoader, error) {
	if size <= 0 {
		size = defaultAssetCacheSize
	}
	cache, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("asset cache: %w", err)
	}
	return &AssetLoader{cache: cache}, nil
}

// Load returns the decoded image at path, or an AssetMissingError.
func (l *AssetLoader) Load(path string) (image.Image, error) {
	if img, ok := l.cache.Get(path); ok {
		return img, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, AssetMissingError(err, "asset %s", path)
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, AssetMissingError(err, "asset %s is not a usable image", path)
	}
	l.cache.Add(path, img)
	return img, nil
}
