package carousel

import (
	"fmt"
	"os"

	"kashika/internal/models"

	"gopkg.in/yaml.v2"
)

type slidesFile struct {
	Slides []models.Slide `yaml:"slides"`
}

// LoadSlides reads the slide list; order in the file is slide order.
func LoadSlides(path string) ([]models.Slide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slides: %w", err)
	}

	var file slidesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse slides: %w", err)
	}
	if len(file.Slides) == 0 {
		return nil, ErrNoSlides
	}

	for i := range file.Slides {
		file.Slides[i].Index = i
	}
	return file.Slides, nil
}
