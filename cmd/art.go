package cmd

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/lorekeep/cardscope/internal/config"
)

// Card art dimensions in character cells. Cards are portrait, roughly 5:7.
const (
	artWidth  = 30
	artHeight = 21
)

// findCardArt locates or generates ANSI art for a card. Images live in the
// configured image directory, named by card identifier. Returns the path to
// an .ansi file, or an error when no image exists for the card.
func findCardArt(imageDir string, cardID int) (string, error) {
	if imageDir == "" {
		return "", fmt.Errorf("no image directory configured")
	}

	// Pre-rendered ANSI art wins if present.
	ansiPath := filepath.Join(imageDir, "ansi", fmt.Sprintf("%d.ansi", cardID))
	if _, err := os.Stat(ansiPath); !os.IsNotExist(err) {
		return ansiPath, nil
	}

	imagePath, err := findCardImage(imageDir, cardID)
	if err != nil {
		return "", fmt.Errorf("no image found for card %d", cardID)
	}

	cacheDir := filepath.Join(config.GetCacheDir(), "ansi_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %v", err)
	}

	// Cache filename keyed by the image path.
	cacheFilename := fmt.Sprintf("%x.ansi", md5.Sum([]byte(imagePath)))
	cachePath := filepath.Join(cacheDir, cacheFilename)

	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		return cachePath, nil
	}

	if err := generateAnsiArt(imagePath, cachePath); err != nil {
		return "", fmt.Errorf("failed to generate ANSI art: %v", err)
	}

	return cachePath, nil
}

// findCardImage searches the image directory for a file named after the card.
func findCardImage(imageDir string, cardID int) (string, error) {
	extensions := []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}
	for _, ext := range extensions {
		path := filepath.Join(imageDir, fmt.Sprintf("%d%s", cardID, ext))
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no image found for card")
}

// generateAnsiArt converts an image file to ANSI art and saves it to the specified output path
func generateAnsiArt(imagePath, outputPath string) error {
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode image: %v", err)
	}

	ansiArt, err := imageToAnsi(img, artWidth, artHeight, true)
	if err != nil {
		return fmt.Errorf("failed to convert image to ANSI: %v", err)
	}

	if err := os.WriteFile(outputPath, []byte(ansiArt), 0644); err != nil {
		return fmt.Errorf("failed to write ANSI art to file: %v", err)
	}

	return nil
}

// imageToAnsi converts an image to ANSI art
func imageToAnsi(img image.Image, width, height int, use256Colors bool) (string, error) {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder

	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Get the four pixels that will make up one character cell
			c1 := getColorAt(resized, x, y)
			c2 := getColorAt(resized, x+1, y)
			c3 := getColorAt(resized, x, y+1)
			c4 := getColorAt(resized, x+1, y+1)

			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			// Upper half block: top pixels as foreground, bottom as background.
			upperHalfFg := averageColor(col1, col2)
			lowerHalfBg := averageColor(col3, col4)

			fg := colorfulToColor(upperHalfFg)
			bg := colorfulToColor(lowerHalfBg)

			buffer.WriteString(ansiColorString('▀', fg, bg, use256Colors))
		}
		buffer.WriteString("\n")
	}

	return buffer.String(), nil
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255} // Return black for out-of-bounds
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// colorfulToColor converts a colorful.Color to a standard color.Color
func colorfulToColor(c colorful.Color) color.Color {
	r := uint8(c.R * 255)
	g := uint8(c.G * 255)
	b := uint8(c.B * 255)

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ansiColorString formats a character with ANSI color codes
func ansiColorString(char rune, fg, bg color.Color, use256Colors bool) string {
	r1, g1, b1, _ := fg.RGBA()
	r2, g2, b2, _ := bg.RGBA()

	// RGBA() returns values in range 0-65535
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	if use256Colors {
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
			r1, g1, b1, r2, g2, b2, char)
	}

	// Simplified 16-color version as fallback
	return string(char)
}

// loadAnsiArt loads the ANSI art from a file
func loadAnsiArt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// cardArt returns the ANSI art for a card, or "" when unavailable. Art is
// best-effort; a missing image never blocks the panel.
func cardArt(imageDir string, cardID int) string {
	path, err := findCardArt(imageDir, cardID)
	if err != nil {
		return ""
	}
	art, err := loadAnsiArt(path)
	if err != nil {
		return ""
	}
	return art
}
