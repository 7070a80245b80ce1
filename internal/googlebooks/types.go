package googlebooks

// Identifier types used in industryIdentifiers.
const (
	ISBN10 = "ISBN_10"
	ISBN13 = "ISBN_13"
)

// Volume is the volumeInfo of a Google Books search result.
// Empty fields are omitted when a Volume is re-encoded, so a candidate
// listed in a prompt only shows what the API actually returned.
type Volume struct {
	Title               string               `json:"title,omitempty"`
	Subtitle            string               `json:"subtitle,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	ReadingModes        *ReadingModes        `json:"readingModes,omitempty"`
	PageCount           int                  `json:"pageCount,omitempty"`
	PrintType           string               `json:"printType,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	MaturityRating      string               `json:"maturityRating,omitempty"`
	Language            string               `json:"language,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
	PreviewLink         string               `json:"previewLink,omitempty"`
	InfoLink            string               `json:"infoLink,omitempty"`
	CanonicalVolumeLink string               `json:"canonicalVolumeLink,omitempty"`
}

// IndustryIdentifier is one {type, identifier} pair, e.g. {ISBN_13, 9780131103627}.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ReadingModes struct {
	Text  bool `json:"text"`
	Image bool `json:"image"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// searchResponse matches the volumes list response.
type searchResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo Volume `json:"volumeInfo"`
	} `json:"items"`
}
