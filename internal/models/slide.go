package models

// Slide is one carousel image. Index is its fixed position; MobileSrc, when set, replaces Src
// on narrow viewports.
type Slide struct {
	Index     int    `yaml:"-" json:"index"`
	Src       string `yaml:"src" json:"src"`
	MobileSrc string `yaml:"mobile_src,omitempty" json:"mobile_src,omitempty"`
	Alt       string `yaml:"alt,omitempty" json:"alt,omitempty"`
}
