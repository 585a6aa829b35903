package crt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMetadataTooLarge is returned when an EXIF block does not fit in one
// JPEG APP1 segment.
var ErrMetadataTooLarge = errors.New("crt: metadata too large for a JPEG segment")

const (
	markerAPP1 = 0xE1

	// maxSegmentPayload is the largest payload after a segment's length
	// field.
	maxSegmentPayload = 0xFFFF - 2

	tagOrientation = 0x0112
	typeShort      = 3
)

var exifHeader = []byte("Exif\x00\x00")

// Metadata is carried from a source image into encoded JPEGs.
type Metadata struct {
	// EXIF is the TIFF-structured EXIF block, without the APP1 "Exif"
	// prefix. Its orientation is 1 since decoding applies it.
	EXIF []byte
}

// IsEmpty reports whether there is no metadata to write.
func (m Metadata) IsEmpty() bool { return len(m.EXIF) == 0 }

// newMetadata copies raw EXIF data and resets its orientation to upright.
func newMetadata(raw []byte) Metadata {
	if len(raw) == 0 {
		return Metadata{}
	}
	md := Metadata{EXIF: bytes.Clone(raw)}
	setOrientation(md.EXIF, 1)
	return md
}

// setOrientation rewrites the orientation entry of IFD0 in place. It
// reports whether an entry was found.
func setOrientation(tiff []byte, orientation uint16) bool {
	if len(tiff) < 8 {
		return false
	}
	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return false
	}
	ifd := uint64(order.Uint32(tiff[4:8]))
	if ifd < 8 || ifd+2 > uint64(len(tiff)) {
		return false
	}
	n := int(order.Uint16(tiff[ifd:]))
	for i := range n {
		e := int(ifd) + 2 + i*12 //nolint:gosec // ifd is bounded by len(tiff)
		if e+12 > len(tiff) {
			return false
		}
		if order.Uint16(tiff[e:]) == tagOrientation && order.Uint16(tiff[e+2:]) == typeShort {
			order.PutUint16(tiff[e+8:], orientation)
			return true
		}
	}
	return false
}

// app1Segment returns the APP1 segment holding md's EXIF block.
func (m Metadata) app1Segment() ([]byte, error) {
	payload := len(exifHeader) + len(m.EXIF)
	if payload > maxSegmentPayload {
		return nil, fmt.Errorf("%w: %d bytes of EXIF", ErrMetadataTooLarge, len(m.EXIF))
	}
	seg := make([]byte, 0, 4+payload)
	seg = append(seg, 0xFF, markerAPP1)
	seg = binary.BigEndian.AppendUint16(seg, uint16(payload+2)) //nolint:gosec // bounded above
	seg = append(seg, exifHeader...)
	return append(seg, m.EXIF...), nil
}
