package utils

// MaskSecret keeps a short prefix so tokens can be correlated in logs.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "*****"
	}
	return s[:4] + "*****"
}
