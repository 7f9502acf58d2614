package domain

// Media types reported by the APOD upstream.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// SourceNASAAPOD tags every normalized picture with the upstream provider.
const SourceNASAAPOD = "nasa-apod"

// Picture is the normalized astronomy picture of the day served to clients.
// It is built once per upstream call and never mutated afterwards.
type Picture struct {
	Date        string  `json:"date" db:"date"`
	Title       string  `json:"title" db:"title"`
	Explanation string  `json:"explanation" db:"explanation"`
	MediaType   string  `json:"mediaType" db:"media_type"`
	Copyright   *string `json:"copyright" db:"copyright"`
	Source      string  `json:"source" db:"source"`

	// Image fields. HDURL is never an animated asset; when the upstream
	// HD URL is animated it is exposed through GifURL instead.
	URL    string `json:"url,omitempty" db:"url"`
	HDURL  string `json:"hdUrl,omitempty" db:"hd_url"`
	GifURL string `json:"gifUrl,omitempty" db:"gif_url"`

	// MediaURL is set for video and other non-image media types.
	MediaURL string `json:"mediaUrl,omitempty" db:"media_url"`
}
