//go:build !(rainnet_asm && amd64)

package toolbox

func dot(w, x []float32) float32 {
	return dotGeneric(w, x)
}
