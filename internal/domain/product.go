package domain

// Rating is optional catalog metadata, present for some products.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the canonical catalog shape. Upstream payloads are ambiguous
// about name/title and image/imageUrl; the catalog client normalizes them
// here so nothing past that boundary has to care.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Rating      *Rating `json:"rating,omitempty"`
}
