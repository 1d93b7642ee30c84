package dto

// TallesResponse lists the sizes of a product with at least one line in stock,
// in the fixed S < M < L < XL < XXL order.
type TallesResponse struct {
	Talles []string `json:"talles"`
}

// ColoresResponse lists the colors available for a (product, talle) pair —
// or across all talles when none was given — alphabetically sorted.
type ColoresResponse struct {
	Colores []string `json:"colores"`
}
