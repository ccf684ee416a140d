package domain

// Department routes tickets to a support area.
type Department struct {
	CodDepto int64
	Area     string
}
