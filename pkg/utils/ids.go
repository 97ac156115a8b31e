package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	defaultIDLength = 6
)

// GenerateID gera um id curto alfanumérico (execuções de jobs, registros de exemplo)
func GenerateID() (string, error) {
	return GenerateIDWithLength(defaultIDLength)
}

// GenerateIDWithLength gera um id alfanumérico com o tamanho pedido; tamanhos
// não positivos usam o padrão
func GenerateIDWithLength(length int) (string, error) {
	if length <= 0 {
		length = defaultIDLength
	}
	return gonanoid.Generate(idAlphabet, length)
}
