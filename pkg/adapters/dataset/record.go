package dataset

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
)

// decodeRecords splits raw storage into records and decodes each one into a line.
func decodeRecords(raw []byte, attrs Attributes, codec *codepage.Codec) ([]string, error) {
	var records [][]byte
	switch attrs.RecFM {
	case VariableBlocked:
		for off := 0; off < len(raw); {
			if len(raw)-off < rdwSize {
				return nil, fmt.Errorf("truncated record descriptor at offset %d", off)
			}
			n := int(binary.BigEndian.Uint16(raw[off:]))
			if n < rdwSize || off+n > len(raw) {
				return nil, fmt.Errorf("bad record length %d at offset %d", n, off)
			}
			records = append(records, raw[off+rdwSize:off+n])
			off += n
		}
	default:
		if len(raw)%attrs.LRECL != 0 {
			return nil, fmt.Errorf("size %d is not a multiple of lrecl %d", len(raw), attrs.LRECL)
		}
		for off := 0; off < len(raw); off += attrs.LRECL {
			records = append(records, raw[off:off+attrs.LRECL])
		}
	}

	lines := make([]string, 0, len(records))
	for i, rec := range records {
		text, err := codec.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if attrs.RecFM == FixedBlocked {
			text = strings.TrimRight(text, " ")
		}
		lines = append(lines, text)
	}
	return lines, nil
}

// encodeRecords is the inverse of decodeRecords. Every line is checked before
// anything is returned, so an over-long line never yields partial output.
func encodeRecords(lines []string, attrs Attributes, codec *codepage.Codec) ([]byte, error) {
	var pad []byte
	if attrs.RecFM == FixedBlocked {
		sp, err := codec.Encode(" ")
		if err != nil {
			return nil, err
		}
		pad = sp
	}

	var out []byte
	for i, line := range lines {
		rec, err := codec.Encode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if len(rec) > attrs.MaxData() {
			return nil, fmt.Errorf("line %d has %d bytes, limit %d: %w",
				i+1, len(rec), attrs.MaxData(), domain.ErrRecordTooLong)
		}
		switch attrs.RecFM {
		case VariableBlocked:
			var rdw [rdwSize]byte
			binary.BigEndian.PutUint16(rdw[:], uint16(len(rec)+rdwSize))
			out = append(out, rdw[:]...)
			out = append(out, rec...)
		default:
			out = append(out, rec...)
			for n := len(rec); n < attrs.LRECL; n += len(pad) {
				out = append(out, pad...)
			}
		}
	}
	return out, nil
}
