package vector

// Null is the store used in keyword-only mode. It counts rows so ids stay
// aligned with the keyword index, and finds nothing.
type Null struct {
	rows int
}

var _ Store = (*Null)(nil)

func NewNull() *Null { return &Null{} }

// NewNullWithRows returns a Null that already counts rows entries.
func NewNullWithRows(rows int) *Null { return &Null{rows: max(rows, 0)} }

func (n *Null) Available() bool { return false }
func (n *Null) Dimension() int  { return 0 }
func (n *Null) Len() int        { return n.rows }

func (n *Null) Add(vectors ...[]float32) ([]int, error) {
	ids := make([]int, len(vectors))
	for i := range vectors {
		ids[i] = n.rows
		n.rows++
	}
	return ids, nil
}

func (n *Null) Search([]float32, int, func(int) bool) ([]Match, error) {
	return nil, nil
}

func (n *Null) Compact(survivors []int) {
	n.rows = len(survivors)
}

func (n *Null) Vectors() [][]float32 {
	return nil
}

func (n *Null) Restore(_ int, vectors [][]float32) error {
	n.rows = len(vectors)
	return nil
}
