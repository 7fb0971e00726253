package parameter

// View is the presentation state of one parameter at snapshot time.
type View struct {
	Index        int
	Name         string
	Value        float32
	Min          float32
	Max          float32
	Visible      bool
	Separator    bool
	HasAnimation bool
	Animated     bool
}

// Snapshot is a copy of every parameter's presentation state, in registry order.
type Snapshot struct {
	Params []View
}

// Visible returns the views a control panel should list, in registry order.
func (s Snapshot) Visible() []View {
	out := make([]View, 0, len(s.Params))
	for _, v := range s.Params {
		if v.Visible {
			out = append(out, v)
		}
	}
	return out
}
