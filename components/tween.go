package components

import (
	"strings"

	"github.com/phanxgames/prefab"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// TweenProperty names the field a tween drives.
type TweenProperty string

const (
	TweenX        TweenProperty = "x"
	TweenY        TweenProperty = "y"
	TweenRotation TweenProperty = "rotation"
	TweenScaleX   TweenProperty = "scale_x"
	TweenScaleY   TweenProperty = "scale_y"
	// TweenAlpha drives the sprite tint alpha, or the node background alpha
	// on UI entities.
	TweenAlpha TweenProperty = "alpha"
)

var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_expo":        ease.InExpo,
	"out_expo":       ease.OutExpo,
	"in_out_expo":    ease.InOutExpo,
	"in_bounce":      ease.InBounce,
	"out_bounce":     ease.OutBounce,
	"in_out_bounce":  ease.InOutBounce,
	"in_elastic":     ease.InElastic,
	"out_elastic":    ease.OutElastic,
	"in_out_elastic": ease.InOutElastic,
	"in_back":        ease.InBack,
	"out_back":       ease.OutBack,
	"in_out_back":    ease.InOutBack,
}

// Easing looks up an easing function by name. The empty name is linear.
func Easing(name string) (ease.TweenFunc, bool) {
	if name == "" {
		return ease.Linear, true
	}
	fn, ok := easings[strings.ToLower(name)]
	return fn, ok
}

// TweenData animates one property of its entity. UpdateTweens advances it.
type TweenData struct {
	Property TweenProperty
	// From is the start value; nil starts from the value on the first update.
	From     *float64
	To       float64
	Duration float32
	Ease     ease.TweenFunc
	Done     bool

	tween *gween.Tween
}

// Tween is the live tween component.
var Tween = donburi.NewComponentType[TweenData]()

var tweenQuery = donburi.NewQuery(filter.Contains(Tween))

// TweenPrefab describes a tween.
//
//	tween: {property: alpha, from: 0, to: 1, duration: 0.5, ease: out_quad}
type TweenPrefab struct {
	Property TweenProperty `yaml:"property" json:"property"`
	From     *float64      `yaml:"from" json:"from"`
	To       float64       `yaml:"to" json:"to"`
	Duration float32       `yaml:"duration" json:"duration"`
	Ease     string        `yaml:"ease" json:"ease"`
}

// Resolve checks the easing name.
func (t *TweenPrefab) Resolve(w *prefab.World) bool {
	if _, ok := Easing(t.Ease); !ok {
		w.Logger().Warn().
			Str("target", "components").
			Str("ease", t.Ease).
			Msg("unknown easing function")
		return true
	}
	return false
}

// Apply inserts the Tween component. A tween with an unknown easing is
// dropped.
func (t TweenPrefab) Apply(e *prefab.EntityMut) {
	fn, ok := Easing(t.Ease)
	if !ok {
		e.World().Logger().Warn().
			Str("target", "components").
			Str("ease", t.Ease).
			Msg("unknown easing function, tween dropped")
		return
	}
	t = t.Clone()
	prefab.Insert(e, Tween, TweenData{
		Property: t.Property,
		From:     t.From,
		To:       t.To,
		Duration: t.Duration,
		Ease:     fn,
	})
}

// Clone returns a copy that shares no pointers with t.
func (t TweenPrefab) Clone() TweenPrefab {
	if t.From != nil {
		from := *t.From
		t.From = &from
	}
	return t
}

// UpdateTweens advances every unfinished tween by dt seconds and writes the
// value into the entity's components. Components are looked up again on
// every call, so tweens survive archetype changes of their entity.
func UpdateTweens(w *prefab.World, dt float32) {
	tweenQuery.Each(w.ECS(), func(entry *donburi.Entry) {
		t := Tween.Get(entry)
		if t.Done {
			return
		}
		field := tweenField(entry, t.Property)
		if field == nil {
			return
		}
		if t.tween == nil {
			from := *field
			if t.From != nil {
				from = *t.From
			}
			fn := t.Ease
			if fn == nil {
				fn = ease.Linear
			}
			t.tween = gween.New(float32(from), float32(t.To), t.Duration, fn)
		}
		v, done := t.tween.Update(dt)
		*field = float64(v)
		t.Done = done
	})
}

func tweenField(entry *donburi.Entry, p TweenProperty) *float64 {
	if p == TweenAlpha {
		switch {
		case entry.HasComponent(Sprite):
			return &Sprite.Get(entry).Color.A
		case entry.HasComponent(Node):
			return &Node.Get(entry).Background.A
		}
		return nil
	}
	if !entry.HasComponent(Transform) {
		return nil
	}
	tr := Transform.Get(entry)
	switch p {
	case TweenX:
		return &tr.X
	case TweenY:
		return &tr.Y
	case TweenRotation:
		return &tr.Rotation
	case TweenScaleX:
		return &tr.ScaleX
	case TweenScaleY:
		return &tr.ScaleY
	}
	return nil
}
