package entity

// Product is a catalog record. All fields except ID are replaced wholesale on update.
type Product struct {
	ID       int64
	Name     string
	Brand    string
	Category string
	Stock    int
	Price    float64
}
