package models

import (
	"fmt"
	"time"
)

// MinTargetPrice é o menor preço alvo aceito quando o usuário define um
const MinTargetPrice = 100

// Timestamps guarda as datas de criação e última modificação de uma entidade
type Timestamps struct {
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Product representa um produto sendo monitorado
type Product struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Image       string   `json:"image"`
	LowestPrice int      `json:"lprice"`
	TargetPrice int      `json:"myprice"` // 0 enquanto o usuário não definir
	OwnerID     int64    `json:"-"`
	Folders     []Folder `json:"productFolderList"`
	Timestamps
}

// ValidateTargetPrice verifica o preço alvo mínimo
func ValidateTargetPrice(price int) error {
	if price < MinTargetPrice {
		return &ValidationError{
			Message: fmt.Sprintf("preço alvo inválido: defina no mínimo %d", MinTargetPrice),
		}
	}
	return nil
}

// ReachedTarget indica se o menor preço atual atingiu o preço alvo definido
func (p *Product) ReachedTarget() bool {
	return p.TargetPrice > 0 && p.LowestPrice <= p.TargetPrice
}

// Item é um resultado normalizado da busca no marketplace
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	LowestPrice int    `json:"lprice"`
}
