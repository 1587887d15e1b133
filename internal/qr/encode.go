package qr

import (
	"github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/v2"
)

// EncodedSymbol is an immutable QR module matrix.
type EncodedSymbol struct {
	Payload   string
	Level     ErrorCorrection
	Version   int
	Dimension int

	code    *qrcode.QRCode
	modules [][]bool
}

// Dark reports whether the module at column x, row y is dark.
func (s *EncodedSymbol) Dark(x, y int) bool {
	if y < 0 || y >= len(s.modules) || x < 0 || x >= len(s.modules[y]) {
		return false
	}
	return s.modules[y][x]
}

// MaxCapacity holds the version 40 character capacities of one level.
type MaxCapacity struct {
	Numeric      int
	Alphanumeric int
	Byte         int
}

var maxCapacity = [...]MaxCapacity{
	LevelL: {Numeric: 7089, Alphanumeric: 4296, Byte: 2953},
	LevelM: {Numeric: 5596, Alphanumeric: 3391, Byte: 2331},
	LevelQ: {Numeric: 3993, Alphanumeric: 2420, Byte: 1663},
	LevelH: {Numeric: 3057, Alphanumeric: 1852, Byte: 1273},
}

// CapacityFor returns the largest payload sizes any symbol can hold at l.
func CapacityFor(l ErrorCorrection) MaxCapacity {
	if l < 0 || int(l) >= len(maxCapacity) {
		return maxCapacity[LevelH]
	}
	return maxCapacity[l]
}

func encoderLevel(l ErrorCorrection) qrcode.EncodeOption {
	switch l {
	case LevelL:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case LevelM:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case LevelQ:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	}
}

// Encode builds the smallest symbol holding payload at level l.
func Encode(payload string, l ErrorCorrection) (*EncodedSymbol, error) {
	if payload == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "empty payload")
	}
	code, err := qrcode.NewWith(payload, encoderLevel(l))
	if err != nil {
		return nil, newCapacityError(l, payload, err)
	}
	capture := &matrixCapture{}
	if err := code.Save(capture); err != nil {
		return nil, errors.Wrap(err, "read qr matrix")
	}
	dim := len(capture.modules)
	return &EncodedSymbol{
		Payload:   payload,
		Level:     l,
		Version:   (dim - 17) / 4,
		Dimension: dim,
		code:      code,
		modules:   capture.modules,
	}, nil
}

// matrixCapture is a qrcode.Writer that keeps the module matrix in memory.
type matrixCapture struct {
	modules [][]bool
}

func (m *matrixCapture) Write(mat qrcode.Matrix) error {
	w, h := mat.Width(), mat.Height()
	m.modules = make([][]bool, h)
	for y := range m.modules {
		m.modules[y] = make([]bool, w)
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if y < h && x < w {
			m.modules[y][x] = v.IsSet()
		}
	})
	return nil
}

func (m *matrixCapture) Close() error { return nil }
