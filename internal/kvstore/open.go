package kvstore

import (
	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/errors"
)

// Open creates the Store selected by the storage settings.
func Open(settings *conf.Settings) (Store, error) {
	path, err := settings.StorePath()
	if err != nil {
		return nil, err
	}

	switch settings.Storage.Type {
	case "file":
		return NewFileStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, errors.Newf("unsupported storage type: %s", settings.Storage.Type).
			Component("kvstore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}
