package resource

// Texture is a decoded image handle owned by the cache.
type Texture interface {
	// Size returns the image dimensions in pixels.
	Size() (width, height int)
	// Release frees the handle. The cache calls it exactly once.
	Release() error
}

// Music is a decoded, looping music handle owned by the cache.
type Music interface {
	Release() error
}

// SoundEffect is a decoded one-shot sound handle owned by the cache.
type SoundEffect interface {
	Release() error
}

// Backend decodes payload files into handles. Implementations live in
// pkg/backend; tests use fakes.
//
// The cache only passes paths it has already stat'ed and never calls a
// Backend concurrently. Handles are compared with ==, so they should be
// pointers.
type Backend interface {
	DecodeTexture(path string) (Texture, error)
	DecodeMusic(path string) (Music, error)
	DecodeSoundEffect(path string) (SoundEffect, error)
}

// ChangeNotifier lets a filesystem watcher shorten the poll period. It only
// signals; the staleness pass still runs on the caller's thread.
type ChangeNotifier interface {
	// Watch starts watching path (or its directory).
	Watch(path string) error
	// Changed reports and clears whether anything watched changed since the
	// last call.
	Changed() bool
	Close() error
}
