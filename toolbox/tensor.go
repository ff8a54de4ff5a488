package toolbox

import "fmt"

// AF32 is a dense row-major float32 array.
type AF32 struct {
	V     []float32
	Shape []int
}

func MakeAF32(shape ...int) *AF32 {
	for _, s := range shape {
		if s <= 0 {
			panic(fmt.Sprintf("invalid shape: %v", shape))
		}
	}
	size := 1
	for _, s := range shape {
		size *= s
	}

	return &AF32{
		V:     make([]float32, size),
		Shape: shape,
	}
}

func (a *AF32) At2(idx0, idx1 int) float32 {
	if len(a.Shape) != 2 {
		panic("At2() invalid for len(shape) != 2")
	}
	return a.V[idx0*a.Shape[1]+idx1]
}

func (a *AF32) Set2(idx0, idx1 int, v float32) {
	if len(a.Shape) != 2 {
		panic("Set2() invalid for len(shape) != 2")
	}
	a.V[idx0*a.Shape[1]+idx1] = v
}

// Row returns row idx of a 2-d array.  The returned slice shares storage with
// a (no data is copied), and its capacity is clipped so appends cannot spill
// into the next row.
func (a *AF32) Row(idx int) []float32 {
	if len(a.Shape) != 2 {
		panic("Row() invalid for len(shape) != 2")
	}
	begin := idx * a.Shape[1]
	end := begin + a.Shape[1]
	return a.V[begin:end:end]
}

// Rows returns a view of every row of a 2-d array, in order.  This is the
// [][]float32 form taken by Network.Predict and Network.Train.
func (a *AF32) Rows() [][]float32 {
	if len(a.Shape) != 2 {
		panic("Rows() invalid for len(shape) != 2")
	}
	rows := make([][]float32, a.Shape[0])
	for k := range rows {
		rows[k] = a.Row(k)
	}
	return rows
}

// AF32Slice returns rows [begin, end) of a 2-d array.  Storage is shared.
func AF32Slice(a *AF32, begin, end int) *AF32 {
	if len(a.Shape) != 2 {
		panic("cannot slice if len(shape) != 2")
	}
	if begin < 0 || end > a.Shape[0] || begin > end {
		panic(fmt.Sprintf("invalid row range [%d, %d) for shape %v", begin, end, a.Shape))
	}
	width := a.Shape[1]
	return &AF32{
		V:     a.V[begin*width : end*width],
		Shape: []int{end - begin, width},
	}
}
