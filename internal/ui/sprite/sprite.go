// Package sprite plays animated GIF sprites as pose surfaces.
package sprite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/png"
	"sync"
	"time"

	"doei/internal/assets"
	"doei/internal/core/geom"

	"fyne.io/fyne/v2"
)

const defaultFrameDelay = 100 * time.Millisecond

// Animation owns the decoded frames of one GIF and the playback loop.
// Frames are delivered through an update callback; the window side is
// responsible for marshalling onto the UI thread.
type Animation struct {
	mu           sync.Mutex
	name         string
	frames       []fyne.Resource
	delays       []time.Duration
	frameSize    geom.Size
	speedPercent int
	rendered     geom.Size
	update       func(fyne.Resource)
	onResize     func(geom.Size)
	cancel       context.CancelFunc
}

// Load decodes a GIF asset into a ready-to-play animation.
func Load(assetName string) (*Animation, error) {
	data, err := assets.ReadFile(assetName)
	if err != nil {
		return nil, err
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif %q: %w", assetName, err)
	}
	if len(decoded.Image) == 0 {
		return nil, fmt.Errorf("decode gif %q: no frames", assetName)
	}

	bounds := image.Rect(0, 0, decoded.Config.Width, decoded.Config.Height)
	if bounds.Empty() {
		bounds = decoded.Image[0].Bounds()
	}

	frames, delays, err := composeFrames(assetName, decoded, bounds)
	if err != nil {
		return nil, err
	}

	return &Animation{
		name:         assetName,
		frames:       frames,
		delays:       delays,
		frameSize:    geom.Size{W: bounds.Dx(), H: bounds.Dy()},
		speedPercent: 100,
	}, nil
}

// SetUpdateHandler installs the frame sink. Must be set before Start.
func (animation *Animation) SetUpdateHandler(update func(fyne.Resource)) {
	animation.mu.Lock()
	defer animation.mu.Unlock()
	animation.update = update
}

// SetResizeHandler installs the rendered-size sink.
func (animation *Animation) SetResizeHandler(onResize func(geom.Size)) {
	animation.mu.Lock()
	defer animation.mu.Unlock()
	animation.onResize = onResize
}

// FrameSize returns the logical GIF canvas size before scaling.
func (animation *Animation) FrameSize() geom.Size {
	return animation.frameSize
}

// SetSpeedPercent changes playback speed. 100 plays the GIF's own delays,
// 20 plays five times slower, 115 slightly faster. Non-positive values
// fall back to 100.
func (animation *Animation) SetSpeedPercent(percent int) {
	animation.mu.Lock()
	defer animation.mu.Unlock()
	if percent <= 0 {
		percent = 100
	}
	animation.speedPercent = percent
}

// SetRenderedSize records the on-screen size and forwards it to the window.
func (animation *Animation) SetRenderedSize(size geom.Size) {
	animation.mu.Lock()
	animation.rendered = size
	onResize := animation.onResize
	animation.mu.Unlock()
	if onResize != nil {
		onResize(size)
	}
}

// Start begins looping frames. A running loop is restarted from frame zero.
func (animation *Animation) Start() {
	animation.mu.Lock()
	if animation.cancel != nil {
		animation.cancel()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	animation.cancel = cancel
	animation.mu.Unlock()

	go animation.run(runCtx)
}

// Stop halts playback. The last delivered frame stays on screen.
func (animation *Animation) Stop() {
	animation.mu.Lock()
	defer animation.mu.Unlock()
	if animation.cancel != nil {
		animation.cancel()
		animation.cancel = nil
	}
}

func (animation *Animation) run(ctx context.Context) {
	index := 0
	for {
		animation.mu.Lock()
		update := animation.update
		frame := animation.frames[index]
		delay := animation.delays[index] * 100 / time.Duration(animation.speedPercent)
		animation.mu.Unlock()

		if update != nil {
			update(frame)
		}
		if len(animation.frames) == 1 {
			return
		}
		if !sleepWithContext(ctx, delay) {
			return
		}
		index = (index + 1) % len(animation.frames)
	}
}

// composeFrames flattens partial GIF frames onto the full canvas, honoring
// the per-frame disposal method, and bakes each into a static resource.
func composeFrames(assetName string, decoded *gif.GIF, bounds image.Rectangle) ([]fyne.Resource, []time.Duration, error) {
	canvasImage := image.NewRGBA(bounds)
	frames := make([]fyne.Resource, 0, len(decoded.Image))
	delays := make([]time.Duration, 0, len(decoded.Image))

	for i, src := range decoded.Image {
		var restore *image.RGBA
		if i < len(decoded.Disposal) && decoded.Disposal[i] == gif.DisposalPrevious {
			restore = image.NewRGBA(bounds)
			draw.Draw(restore, bounds, canvasImage, bounds.Min, draw.Src)
		}

		draw.Draw(canvasImage, src.Bounds(), src, src.Bounds().Min, draw.Over)

		var buffer bytes.Buffer
		if err := png.Encode(&buffer, canvasImage); err != nil {
			return nil, nil, fmt.Errorf("compose gif %q frame %d: %w", assetName, i, err)
		}
		frames = append(frames, fyne.NewStaticResource(fmt.Sprintf("%s#%d", assetName, i), buffer.Bytes()))

		delay := defaultFrameDelay
		if i < len(decoded.Delay) && decoded.Delay[i] > 0 {
			delay = time.Duration(decoded.Delay[i]) * 10 * time.Millisecond
		}
		delays = append(delays, delay)

		if i < len(decoded.Disposal) {
			switch decoded.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvasImage, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				if restore != nil {
					draw.Draw(canvasImage, bounds, restore, bounds.Min, draw.Src)
				}
			}
		}
	}

	return frames, delays, nil
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
