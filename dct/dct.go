/*
NAME
  dct.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dct implements the forward/quantize/inverse discrete cosine
// transform over 8x8 RGB blocks. The 2D transform is expressed as a
// separable pair of matrix products rather than a hand-unrolled
// quadruple loop.
package dct

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/plane"
)

// numChannels is the number of color channels transformed per block: R, G, B.
const numChannels = 3

// Block holds the cached forward-DCT coefficients of one 8x8 RGB block.
// Coeffs[c].At(u, v) is F(c, u, v) as defined in the spec.
type Block struct {
	Coeffs [numChannels]*mat.Dense
}

// Engine computes forward and inverse DCTs for a fixed block size.
type Engine struct {
	size  int
	cos   *mat.Dense // cos[u][x] = cos((2x+1)*u*pi/(2S))
	cosT  mat.Matrix // transpose view of cos
	alpha []float64  // alpha(0) = 1/sqrt(2), alpha(k>0) = 1
	scale float64    // 2/S
}

// New returns an Engine for cfg.DCTBlockSize, precomputing the cosine
// table once.
func New(cfg config.Config) *Engine {
	s := int(cfg.DCTBlockSize)

	cos := mat.NewDense(s, s, nil)
	for u := 0; u < s; u++ {
		for x := 0; x < s; x++ {
			cos.Set(u, x, math.Cos(float64(2*x+1)*float64(u)*math.Pi/float64(2*s)))
		}
	}

	alpha := make([]float64, s)
	alpha[0] = 1 / math.Sqrt2
	for k := 1; k < s; k++ {
		alpha[k] = 1
	}

	return &Engine{
		size:  s,
		cos:   cos,
		cosT:  cos.T(),
		alpha: alpha,
		scale: 2 / float64(s),
	}
}

// Size returns the transform block side length S.
func (e *Engine) Size() int { return e.size }

// Forward computes the forward DCT of one 8x8 RGB block whose top-left
// pixel is at (r0, c0) in frame fr of store.
func (e *Engine) Forward(store *plane.Store, fr, r0, c0 uint) Block {
	var b Block
	for ch, channel := range [numChannels]config.Channel{config.R, config.G, config.B} {
		p := mat.NewDense(e.size, e.size, nil)
		for y := 0; y < e.size; y++ {
			row := store.Row(fr, channel, r0+uint(y))
			for x := 0; x < e.size; x++ {
				p.Set(y, x, float64(row[c0+uint(x)]))
			}
		}

		// M = C * P * C^T. F(u,v) = scale*alpha(u)*alpha(v)*M(v,u).
		var cp mat.Dense
		cp.Mul(e.cos, p)
		var m mat.Dense
		m.Mul(&cp, e.cosT)

		f := mat.NewDense(e.size, e.size, nil)
		for u := 0; u < e.size; u++ {
			for v := 0; v < e.size; v++ {
				f.Set(u, v, e.scale*e.alpha[u]*e.alpha[v]*m.At(v, u))
			}
		}
		b.Coeffs[ch] = f
	}
	return b
}

// Inverse quantizes block by q and computes the inverse DCT, returning an
// 8x8 patch of RGB bytes indexed [row][col][channel].
func (e *Engine) Inverse(block Block, q uint) [][][3]byte {
	patch := make([][][3]byte, e.size)
	for y := range patch {
		patch[y] = make([][3]byte, e.size)
	}

	for ch := 0; ch < numChannels; ch++ {
		n := mat.NewDense(e.size, e.size, nil)
		for u := 0; u < e.size; u++ {
			for v := 0; v < e.size; v++ {
				qv := quantize(block.Coeffs[ch].At(u, v), q)
				n.Set(u, v, e.alpha[u]*e.alpha[v]*qv)
			}
		}

		// Inv = C^T * N * C. p(x,y) = scale*Inv(x,y); pixel(row=y,col=x).
		var ctn mat.Dense
		ctn.Mul(e.cosT, n)
		var inv mat.Dense
		inv.Mul(&ctn, e.cos)

		for y := 0; y < e.size; y++ {
			for x := 0; x < e.size; x++ {
				patch[y][x][ch] = clampTruncate(e.scale * inv.At(x, y))
			}
		}
	}

	return patch
}

// quantize implements Q = round(F/q)*q with round-half-away-from-zero.
func quantize(f float64, q uint) float64 {
	if q == 0 {
		q = 1
	}
	return roundHalfAwayFromZero(f/float64(q)) * float64(q)
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return math.Floor(v + 0.5)
	}
	return math.Ceil(v - 0.5)
}

// clampTruncate clamps v to [0, 255] and truncates (not rounds) to byte,
// per the spec's rounding contract.
func clampTruncate(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
