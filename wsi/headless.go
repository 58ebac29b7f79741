package wsi

import "sync"

// headless is an in-process Window with no backing OS surface. It is
// registered as the default implementation so the module is usable in
// headless test environments (driver/vk's swap chain renders into a
// ring of plain color textures rather than a real swapchain, whatever
// the Window).
type headless struct {
	mu            sync.Mutex
	width, height int
	title         string
	mapped        bool
	events        chan Event
}

func newHeadless(w, h int, title string) (Window, error) {
	return &headless{width: w, height: h, title: title, events: make(chan Event, 8)}, nil
}

func init() { newWindow = newHeadless }

func (w *headless) Map() error   { w.mu.Lock(); w.mapped = true; w.mu.Unlock(); return nil }
func (w *headless) Unmap() error { w.mu.Lock(); w.mapped = false; w.mu.Unlock(); return nil }

func (w *headless) Resize(width, height int) error {
	if width == 0 || height == 0 {
		return nil
	}
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	select {
	case w.events <- Event{Kind: EventResize, Width: width, Height: height}:
	default:
	}
	return nil
}

func (w *headless) SetTitle(title string) error {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
	return nil
}

func (w *headless) Close() {
	closeWindow(w)
	select {
	case w.events <- Event{Kind: EventClose}:
	default:
	}
}

func (w *headless) Width() int  { w.mu.Lock(); defer w.mu.Unlock(); return w.width }
func (w *headless) Height() int { w.mu.Lock(); defer w.mu.Unlock(); return w.height }
func (w *headless) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}
func (w *headless) Events() <-chan Event { return w.events }
