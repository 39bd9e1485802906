package browser

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Element is a handle to a located element. It is only valid until the next
// navigation.
type Element struct {
	el       *rod.Element
	session  *Session
	by       By
	selector string
}

// String describes how the element was located.
func (e *Element) String() string {
	return fmt.Sprintf("%s=%q", e.by, e.selector)
}

// do runs fn on a copy of the handle that gives up after the session
// timeout. Rod retries clicks on covered elements and typing into disabled
// ones until its context ends.
func (e *Element) do(what string, fn func(el *rod.Element) error) error {
	el := e.el.Timeout(e.session.timeout)
	defer el.CancelTimeout()

	err := fn(el)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s after %s", ErrTimeout, what, e, e.session.timeout)
	}
	return fmt.Errorf("failed to %s %s: %w", what, e, err)
}

// Text returns the rendered text of the element.
func (e *Element) Text() (string, error) {
	var text string
	err := e.do("read text of", func(el *rod.Element) (err error) {
		text, err = el.Text()
		return err
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Input types text into the element. Empty text is a no-op.
func (e *Element) Input(text string) error {
	if text == "" {
		return nil
	}
	return e.do("type into", func(el *rod.Element) error {
		return el.Input(text)
	})
}

// Click performs a left click on the element.
func (e *Element) Click() error {
	return e.do("click", func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

// Visible reports whether the element is displayed.
func (e *Element) Visible() (bool, error) {
	var visible bool
	err := e.do("check visibility of", func(el *rod.Element) (err error) {
		visible, err = el.Visible()
		return err
	})
	return visible, err
}

// SetFiles attaches local files to a file input.
func (e *Element) SetFiles(paths ...string) error {
	return e.do("set files on", func(el *rod.Element) error {
		return el.SetFiles(paths)
	})
}

// Center returns the viewport coordinates of the element's centre.
func (e *Element) Center() (image.Point, error) {
	var box *proto.DOMGetContentQuadsResult
	err := e.do("measure", func(el *rod.Element) (err error) {
		box, err = el.Shape()
		return err
	})
	if err != nil {
		return image.Point{}, err
	}

	if len(box.Quads) == 0 {
		return image.Point{}, fmt.Errorf("element has no shape: %s", e)
	}

	quad := box.Quads[0]
	x := int((quad[0] + quad[2] + quad[4] + quad[6]) / 4)
	y := int((quad[1] + quad[3] + quad[5] + quad[7]) / 4)

	return image.Point{X: x, Y: y}, nil
}
