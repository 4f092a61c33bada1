package reveal

import "time"

// Surface is a renderable text object owned by a Revealer.
type Surface interface {
	SetText(text string)
	SetVisible(visible bool)
	Destroy()
}

// SurfaceFactory allocates surfaces on the host display.
type SurfaceFactory interface {
	CreateSurface() Surface
}

// Timer is a handle to a scheduled repeating callback.
// Cancel must be safe to call more than once and after the timer stopped.
type Timer interface {
	Cancel()
}

// Scheduler runs fn every d until the returned Timer is canceled.
// Callbacks must be delivered on the same goroutine as input handling.
type Scheduler interface {
	Every(d time.Duration, fn func()) Timer
}
