package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

// Preprocess mejora la imagen antes del OCR: escala de grises, blur de mediana
// 5x5 para quitar ruido y binarizacion con umbral de Otsu. Devuelve PNG.
// Es una palanca de calidad, no logica de decision.
func Preprocess(img []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := imaging.Grayscale(src)
	blurred := medianBlur(gray, 2)
	bin := binarize(blurred, otsuThreshold(blurred))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, bin, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// medianBlur aplica un filtro de mediana con ventana (2*radius+1)^2 sobre una
// imagen ya en escala de grises (R=G=B). Los bordes se recortan a la imagen.
func medianBlur(src *image.NRGBA, radius int) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	window := make([]int, 0, (2*radius+1)*(2*radius+1))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < bounds.Min.X || nx >= bounds.Max.X || ny < bounds.Min.Y || ny >= bounds.Max.Y {
						continue
					}
					window = append(window, int(src.NRGBAAt(nx, ny).R))
				}
			}
			sort.Ints(window)
			m := uint8(window[len(window)/2])
			dst.SetNRGBA(x, y, color.NRGBA{R: m, G: m, B: m, A: 255})
		}
	}
	return dst
}

// otsuThreshold calcula el umbral que maximiza la varianza entre clases.
func otsuThreshold(img *image.NRGBA) uint8 {
	var hist [256]int
	bounds := img.Bounds()
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[img.NRGBAAt(x, y).R]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	sum := 0.0
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var (
		sumB      float64
		wB        int
		bestVar   float64
		bestLevel uint8
	)
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			bestLevel = uint8(t)
		}
	}
	return bestLevel
}

// binarize deja solo blanco y negro segun el umbral.
func binarize(img *image.NRGBA, threshold uint8) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := uint8(0)
			if img.NRGBAAt(x, y).R > threshold {
				v = 255
			}
			dst.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return dst
}
