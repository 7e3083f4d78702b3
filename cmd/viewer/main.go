//go:build js && wasm

// Command viewer is the browser side of the gallery. Built for GOOS=js
// GOARCH=wasm, it fetches the catalog of the page's category and drives the
// hover dwell, the lightbox and the mobile menu from DOM events.
package main

import (
	"encoding/json"
	"strconv"
	"syscall/js"

	"signal-portfolio/pkg/gallery"
	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/lightbox"
	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/scrolllock"
)

const menuOwner = "menu"

type app struct {
	doc       js.Value
	lock      *scrolllock.Lock
	items     models.Catalog
	presenter *gallery.Presenter
	viewer    *lightbox.Viewer
	frames    []js.Value
	box       js.Value
	keys      js.Func

	// funcs are kept alive for the lifetime of the page
	funcs []js.Func
}

func main() {
	doc := js.Global().Get("document")
	a := &app{doc: doc}
	a.lock = scrolllock.New(func(locked bool) {
		overflow := ""
		if locked {
			overflow = "hidden"
		}
		doc.Get("body").Get("style").Set("overflow", overflow)
	})

	a.bindMenu()

	grid := doc.Call("querySelector", "[data-gallery]")
	if !grid.IsNull() {
		a.box = doc.Call("getElementById", "lightbox")
		a.load(grid.Get("dataset").Get("category").String())
	}

	select {}
}

func (a *app) on(target js.Value, event string, fn func(ev js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		} else {
			fn(js.Undefined())
		}
		return nil
	})
	a.funcs = append(a.funcs, f)
	target.Call("addEventListener", event, f)
}

func (a *app) bindMenu() {
	toggle := a.doc.Call("querySelector", "[data-menu-toggle]")
	menu := a.doc.Call("querySelector", "[data-menu]")
	if toggle.IsNull() || menu.IsNull() {
		return
	}

	var release func()
	a.on(toggle, "click", func(ev js.Value) {
		ev.Call("preventDefault")
		if release != nil {
			release()
			release = nil
			menu.Get("classList").Call("remove", "open")
			return
		}
		release = a.lock.Acquire(menuOwner)
		menu.Get("classList").Call("add", "open")
	})
}

// keydown is registered while a viewer is open
func (a *app) keydown() js.Func {
	if a.keys.IsUndefined() {
		a.keys = js.FuncOf(func(_ js.Value, args []js.Value) any {
			if a.viewer == nil || len(args) == 0 {
				return nil
			}
			if a.viewer.HandleKey(args[0].Get("key").String()) != lightbox.ActionNone {
				args[0].Call("preventDefault")
			}
			return nil
		})
	}
	return a.keys
}

// load fetches the catalog and takes over the server rendered frames
func (a *app) load(category string) {
	var then, fail js.Func
	then = js.FuncOf(func(_ js.Value, args []js.Value) any {
		resp := args[0]
		if !resp.Get("ok").Bool() {
			return nil
		}
		resp.Call("text").Call("then", js.FuncOf(func(_ js.Value, args []js.Value) any {
			var view models.CatalogView
			if err := json.Unmarshal([]byte(args[0].String()), &view); err != nil {
				js.Global().Get("console").Call("warn", "catalog decode failed", err.Error())
				return nil
			}
			a.attach(view)
			return nil
		}))
		return nil
	})
	fail = js.FuncOf(func(_ js.Value, args []js.Value) any {
		js.Global().Get("console").Call("warn", "catalog fetch failed", args[0])
		return nil
	})
	a.funcs = append(a.funcs, then, fail)

	js.Global().Call("fetch", "/api/catalog/"+category).Call("then", then).Call("catch", fail)
}

func (a *app) attach(view models.CatalogView) {
	a.items = view.Items
	a.presenter = gallery.New(view.Items, gallery.Options{
		Category: view.Category.Name,
		Resolver: servedResolver(view),
		OnSelect: a.open,
		OnChange: a.paint,
	})

	nodes := a.doc.Call("querySelectorAll", "[data-frame]")
	a.frames = make([]js.Value, nodes.Get("length").Int())
	for i := range a.frames {
		node := nodes.Index(i)
		a.frames[i] = node
		index, err := strconv.Atoi(node.Get("dataset").Get("index").String())
		if err != nil {
			continue
		}

		a.on(node, "mouseenter", func(js.Value) { a.presenter.Hover(index) })
		a.on(node, "mouseleave", func(js.Value) { a.presenter.Leave() })
		a.on(node, "click", func(ev js.Value) {
			if a.presenter.Activate(index) {
				ev.Call("preventDefault")
			}
		})

		media := node.Call("querySelector", "img, video")
		if media.IsNull() {
			continue
		}
		loaded := func(js.Value) {
			a.presenter.MarkLoaded(index)
			a.paint()
		}
		if media.Get("complete").Truthy() || media.Get("readyState").Int() >= 2 {
			loaded(js.Undefined())
		} else {
			a.on(media, "load", loaded)
			a.on(media, "loadeddata", loaded)
		}
	}
	a.paint()
}

// servedResolver resolves frames from the sizes served with the catalog
func servedResolver(view models.CatalogView) *layout.Resolver {
	positions := make(map[int]layout.Dimensions, len(view.Frames))
	for i, f := range view.Frames {
		positions[i+1] = layout.Dimensions{Width: f.Width, Height: f.Height}
	}
	return layout.NewResolver(map[string]layout.Table{
		view.Category.Name: {Default: layout.Portrait, Positions: positions},
	})
}

// paint copies the presenter's frame state onto the DOM
func (a *app) paint() {
	if a.presenter == nil {
		return
	}
	for _, f := range a.presenter.Frames() {
		if f.Index >= len(a.frames) {
			break
		}
		node := a.frames[f.Index]
		classes := node.Get("classList")
		classes.Call("toggle", "hovered", f.Hovered)
		classes.Call("toggle", "muted", f.Muted)
		classes.Call("toggle", "loaded", f.Loaded)
	}
}

func isTouch() bool {
	w := js.Global()
	if !w.Get("ontouchstart").IsUndefined() {
		return true
	}
	return w.Get("navigator").Get("maxTouchPoints").Int() > 0
}

func (a *app) open(index int) {
	if a.box.IsNull() || a.box.IsUndefined() {
		return
	}
	if a.viewer != nil {
		a.viewer.Close()
	}

	a.viewer = lightbox.Open(a.items, index, lightbox.Options{
		Touch:    isTouch(),
		Lock:     a.lock,
		OnChange: func(int) { a.show() },
		OnClose: func() {
			a.doc.Call("removeEventListener", "keydown", a.keydown())
			a.box.Get("classList").Call("remove", "open", "touch")
			a.box.Call("setAttribute", "aria-hidden", "true")
			clearChildren(a.box.Call("querySelector", "[data-lightbox-media]"))
			a.viewer = nil
		},
	})
	if !a.viewer.IsOpen() {
		a.viewer = nil
		return
	}

	a.bindViewer()
	a.doc.Call("addEventListener", "keydown", a.keydown())
	classes := a.box.Get("classList")
	classes.Call("add", "open")
	classes.Call("toggle", "touch", a.viewer.IsTouch())
	a.box.Call("setAttribute", "aria-hidden", "false")
	a.show()
}

var viewerBound bool

// bindViewer wires the overlay once. Handlers always act on the current viewer.
func (a *app) bindViewer() {
	if viewerBound {
		return
	}
	viewerBound = true

	stage := a.box.Call("querySelector", "[data-lightbox-media]")
	label := a.box.Call("querySelector", "[data-lightbox-label]")

	a.on(a.box.Call("querySelector", "[data-lightbox-close]"), "click", func(ev js.Value) {
		ev.Call("preventDefault")
		if a.viewer != nil {
			a.viewer.Close()
		}
	})
	a.on(stage, "click", func(ev js.Value) {
		if a.viewer == nil {
			return
		}
		if media, ok := mediaRect(stage); ok {
			a.viewer.Click(point(ev), media)
		}
	})
	a.on(stage, "mousemove", func(ev js.Value) {
		if a.viewer == nil {
			return
		}
		media, ok := mediaRect(stage)
		if !ok {
			return
		}
		cursor := a.viewer.PointerMove(point(ev), media)
		stage.Get("style").Set("cursor", string(cursor))
		if p, ok := a.viewer.LabelPosition(); ok {
			style := label.Get("style")
			style.Set("left", strconv.FormatFloat(p.X, 'f', 0, 64)+"px")
			style.Set("top", strconv.FormatFloat(p.Y, 'f', 0, 64)+"px")
		}
	})
	a.on(stage, "touchstart", func(ev js.Value) {
		if a.viewer == nil {
			return
		}
		a.viewer.TouchStart(ev.Get("changedTouches").Index(0).Get("clientX").Float())
	})
	a.on(stage, "touchend", func(ev js.Value) {
		if a.viewer == nil {
			return
		}
		a.viewer.TouchEnd(ev.Get("changedTouches").Index(0).Get("clientX").Float())
	})
}

// show renders the viewer's current item into the overlay
func (a *app) show() {
	if a.viewer == nil {
		return
	}
	stage := a.box.Call("querySelector", "[data-lightbox-media]")
	clearChildren(stage)

	m := a.viewer.Media()
	var el js.Value
	if m.Kind == models.KindVideo {
		el = a.doc.Call("createElement", "video")
		el.Set("src", m.Src)
		if m.Poster != "" {
			el.Set("poster", m.Poster)
		}
		el.Set("autoplay", m.Autoplay)
		el.Set("muted", m.Muted)
		el.Set("loop", m.Loop)
		el.Set("controls", m.Controls)
		el.Set("playsInline", true)
	} else {
		el = a.doc.Call("createElement", "img")
		el.Set("src", m.Src)
		el.Set("alt", m.Alt)
	}
	stage.Call("appendChild", el)

	a.box.Call("querySelector", "[data-lightbox-label]").Set("textContent", a.viewer.PageLabel())

	credits := a.box.Call("querySelector", "[data-lightbox-attribution]")
	clearChildren(credits)
	for _, line := range a.viewer.AttributionLines() {
		p := a.doc.Call("createElement", "p")
		p.Set("textContent", line)
		credits.Call("appendChild", p)
	}
}

func clearChildren(node js.Value) {
	if node.IsNull() || node.IsUndefined() {
		return
	}
	for node.Get("firstChild").Truthy() {
		node.Call("removeChild", node.Get("firstChild"))
	}
}

func point(ev js.Value) lightbox.Point {
	return lightbox.Point{X: ev.Get("clientX").Float(), Y: ev.Get("clientY").Float()}
}

// mediaRect is the box of the image or video shown on the stage, not the
// stage itself
func mediaRect(stage js.Value) (lightbox.Rect, bool) {
	media := stage.Call("querySelector", "img, video")
	if media.IsNull() || media.IsUndefined() {
		return lightbox.Rect{}, false
	}
	return rectOf(media), true
}

func rectOf(node js.Value) lightbox.Rect {
	r := node.Call("getBoundingClientRect")
	return lightbox.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Right:  r.Get("right").Float(),
		Bottom: r.Get("bottom").Float(),
	}
}
