// Command neuron-dot generates the AVX/FMA kernel behind Neuron.CalculateOutput.
//
// Run through `go generate ./toolbox/`.  The output only builds with
// -tags rainnet_asm.
package main

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	. "github.com/mmcloughlin/avo/reg"
)

// Number of YMM accumulators (8 lanes each) per loop iteration.
var unroll = 4

func main() {
	ConstraintExpr("rainnet_asm,amd64")

	TEXT("neuronDotKernel", NOSPLIT, "func(n int, w []float32, x []float32) float32")
	Doc("neuronDotKernel computes sum_i w[i]*x[i] for i in [0, n).")

	n := Load(Param("n"), GP64())
	wPtr := Load(Param("w").Base(), GP64())
	xPtr := Load(Param("x").Base(), GP64())

	acc := make([]VecVirtual, unroll)
	for i := range acc {
		acc[i] = YMM()
		VXORPS(acc[i], acc[i], acc[i])
	}

	blockItems := 8 * unroll
	blockBytes := 4 * blockItems

	Label("blockloop")
	CMPQ(n, U32(blockItems))
	JL(LabelRef("tail"))

	ws := make([]VecVirtual, unroll)
	for i := range ws {
		ws[i] = YMM()
		VMOVUPS(Mem{Base: wPtr}.Offset(32*i), ws[i])
	}
	for i := range ws {
		VFMADD231PS(Mem{Base: xPtr}.Offset(32*i), ws[i], acc[i])
	}

	ADDQ(U32(blockBytes), wPtr)
	ADDQ(U32(blockBytes), xPtr)
	SUBQ(U32(blockItems), n)
	JMP(LabelRef("blockloop"))

	// Neurons in this network are narrow, so most calls only run the tail.
	Label("tail")
	tailAcc := XMM()
	VXORPS(tailAcc, tailAcc, tailAcc)

	Label("tailloop")
	CMPQ(n, U32(0))
	JE(LabelRef("reduce"))

	elt := XMM()
	VMOVSS(Mem{Base: wPtr}, elt)
	VFMADD231SS(Mem{Base: xPtr}, elt, tailAcc)

	ADDQ(U32(4), wPtr)
	ADDQ(U32(4), xPtr)
	DECQ(n)
	JMP(LabelRef("tailloop"))

	Label("reduce")
	for i := 1; i < unroll; i++ {
		VADDPS(acc[0], acc[i], acc[0])
	}
	sum := acc[0].AsX()
	hi := XMM()
	VEXTRACTF128(U8(1), acc[0], hi)
	VADDPS(sum, hi, sum)
	VHADDPS(sum, sum, sum)
	VHADDPS(sum, sum, sum)
	VADDSS(tailAcc, sum, sum)
	VZEROUPPER()
	Store(sum, ReturnIndex(0))

	RET()

	Generate()
}
