package gpu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoAdapter       = errors.New("no compatible GPU adapter")
	ErrDeviceLost      = errors.New("device lost")
	ErrSurfaceLost     = errors.New("surface lost")
	ErrSurfaceOutdated = errors.New("surface outdated")
	ErrSurfaceTimeout  = errors.New("surface timeout")
	ErrOutOfMemory     = errors.New("out of memory")
)

// classifySurfaceError maps a GetCurrentTexture failure onto one of the
// surface sentinels, keeping the original error in the chain.
func classifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	var kind error
	switch {
	case strings.Contains(msg, "outdated"):
		kind = ErrSurfaceOutdated
	case strings.Contains(msg, "device") && strings.Contains(msg, "lost"):
		kind = ErrDeviceLost
	case strings.Contains(msg, "lost"):
		kind = ErrSurfaceLost
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		kind = ErrSurfaceTimeout
	case strings.Contains(msg, "memory"):
		kind = ErrOutOfMemory
	default:
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// IsRecoverable reports whether a frame acquisition error is cured by
// reconfiguring the surface.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}
