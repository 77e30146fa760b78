// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// nmfEpsilon keeps the multiplicative-update denominators away from
// zero so factors stay finite.
const nmfEpsilon = 1e-10

// nmfSeed fixes the factor initialization so repeated runs over the
// same corpus discover the same topics.
const nmfSeed = 42

// factorize decomposes the non-negative documents×terms matrix v into
// document weights w (documents×k) and topic term loadings h (k×terms)
// using Lee-Seung multiplicative updates, then normalizes each row of
// w to sum to one so document weights read as topic proportions.
func factorize(v *mat.Dense, k, iterations int) (w, h *mat.Dense) {
	n, m := v.Dims()
	rng := rand.New(rand.NewSource(nmfSeed))

	w = mat.NewDense(n, k, nil)
	h = mat.NewDense(k, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			w.Set(i, j, rng.Float64()+nmfEpsilon)
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < m; j++ {
			h.Set(i, j, rng.Float64()+nmfEpsilon)
		}
	}

	for iter := 0; iter < iterations; iter++ {
		// H <- H * (WᵀV) / (WᵀWH)
		var wtv, wtw, wtwh mat.Dense
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		wtwh.Mul(&wtw, h)
		addConst(&wtwh, nmfEpsilon)
		var hNum mat.Dense
		hNum.DivElem(&wtv, &wtwh)
		h.MulElem(h, &hNum)

		// W <- W * (VHᵀ) / (WHHᵀ)
		var vht, hht, whht mat.Dense
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, &hht)
		addConst(&whht, nmfEpsilon)
		var wNum mat.Dense
		wNum.DivElem(&vht, &whht)
		w.MulElem(w, &wNum)
	}

	normalizeRows(w)
	return w, h
}

func addConst(a *mat.Dense, c float64) {
	r, cols := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			a.Set(i, j, a.At(i, j)+c)
		}
	}
}

func normalizeRows(a *mat.Dense) {
	r, cols := a.Dims()
	for i := 0; i < r; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			sum += a.At(i, j)
		}
		if sum == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			a.Set(i, j, a.At(i, j)/sum)
		}
	}
}
