package encoder

import (
	"fmt"

	"github.com/giongto35/movierec/pkg/logger"
	oss "github.com/giongto35/movierec/pkg/os"
	"github.com/hashicorp/go-multierror"
)

// AssetIndexer makes new files visible to the host when
// they are placed into its content directories.
type AssetIndexer interface {
	Contains(path string) bool
	Refresh() error
}

// Handle exclusively owns at most one encoder session.
// A session is acquired with Open and always released with Destroy,
// Destroy may be called any number of times.
type Handle struct {
	session Session
	lock    *oss.Flock
	path    string

	assets AssetIndexer
	log    *logger.Logger
}

const lockExt = ".lock"

// NewHandle creates an empty handle. The assets param is optional.
func NewHandle(assets AssetIndexer, log *logger.Logger) *Handle {
	return &Handle{assets: assets, log: log}
}

// Open checks the codec constraints and creates a new session for the config.
// Any existing session of the handle is destroyed first.
// All the errors are of *ConfigurationError type and leave the handle empty.
func (h *Handle) Open(codec Codec, conf Config) error {
	if err := h.Destroy(); err != nil {
		h.log.Warn().Err(err).Msg("previous encoder session was closed with errors")
	}

	if err := codec.SupportsResolution(conf.Attrs, int(conf.Video.Width), int(conf.Video.Height)); err != nil {
		return NewConfigurationError(conf.Path, err)
	}
	if conf.Video.IncludeAlpha {
		if err := codec.SupportsTransparency(conf.Attrs); err != nil {
			return NewConfigurationError(conf.Path, err)
		}
	}

	lock, err := oss.NewFileLock(conf.Path + lockExt)
	if err != nil {
		return NewConfigurationError(conf.Path, err)
	}
	if err = lock.TryLock(); err != nil {
		return NewConfigurationError(conf.Path, fmt.Errorf("output is busy: %w", err))
	}

	session, err := codec.Open(conf, h.log)
	if err != nil {
		if er := lock.Release(); er != nil {
			h.log.Error().Err(er).Msg("lock release")
		}
		return NewConfigurationError(conf.Path, err)
	}

	h.session, h.lock, h.path = session, lock, conf.Path
	h.log.Debug().Msgf("encoder [%v] session is open: %v", codec.Name(), conf.Path)
	return nil
}

// Destroy flushes and closes the current session if any.
// Outputs placed into content directories trigger one refresh of the asset index.
func (h *Handle) Destroy() error {
	if h.session == nil {
		return nil
	}

	var result *multierror.Error
	result = multierror.Append(result, h.session.Close())
	if h.lock != nil {
		result = multierror.Append(result, h.lock.Release())
	}
	path := h.path
	h.session, h.lock, h.path = nil, nil, ""

	if h.assets != nil && h.assets.Contains(path) {
		result = multierror.Append(result, h.assets.Refresh())
	}
	h.log.Debug().Msgf("encoder session is closed: %v", path)
	return result.ErrorOrNil()
}

func (h *Handle) Exists() bool { return h.session != nil }

// Session returns the current session or nil.
func (h *Handle) Session() Session { return h.session }

func (h *Handle) Path() string { return h.path }
