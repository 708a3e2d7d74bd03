package domain

import (
	"time"
)

// Descriptor é um vetor de características de comprimento fixo extraído de uma
// face. O comprimento é definido pelo modelo do extrator e é constante em toda
// a galeria.
type Descriptor []float64

// BoundingBox delimita a região da face na imagem de origem, em pixels.
// Acompanha cada descriptor extraído de um frame; não é persistida.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Identity representa uma pessoa cadastrada na galeria.
// Descriptors preserva a ordem de cadastro: re-cadastrar o mesmo roll number
// com uma nova foto acrescenta um descriptor em vez de descartar o antigo.
type Identity struct {
	RollNumber  string       `json:"roll_number"`
	Name        string       `json:"name"`
	Descriptors []Descriptor `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
}
