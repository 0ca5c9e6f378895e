package manycore

// NewMesh returns a rows x columns system whose cores are numbered in
// row-major order, each with a channel in every direction. Edge channels
// lead to the sinks and sources around the grid.
func NewMesh(rows, columns int) *System {
	n := rows * columns
	if n < 0 {
		n = 0
	}
	s := &System{
		Rows:    rows,
		Columns: columns,
		Cores:   make([]Core, n),
	}
	for i := range s.Cores {
		channels := make([]Channel, 0, len(AllDirections))
		for _, d := range AllDirections {
			channels = append(channels, Channel{Direction: d})
		}
		s.Cores[i] = Core{ID: i, Channels: channels}
	}
	return s
}
