package asset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// errBoxNotFound box cần tìm không có trong file
var errBoxNotFound = errors.New("mp4 box not found")

// ProbeMP4Duration đọc duration (giây) từ box moov/mvhd của file MP4/MOV.
// File không phải MP4 hoặc không có mvhd thì trả lỗi.
func ProbeMP4Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return probeMvhd(f, info.Size())
}

func probeMvhd(r io.ReadSeeker, size int64) (float64, error) {
	moovStart, moovSize, err := findBox(r, 0, size, "moov")
	if err != nil {
		return 0, err
	}
	mvhdStart, mvhdSize, err := findBox(r, moovStart, moovStart+moovSize, "mvhd")
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(mvhdStart, io.SeekStart); err != nil {
		return 0, err
	}

	// version(1) + flags(3)
	head := make([]byte, 4)
	if _, err := io.ReadFull(r, head); err != nil {
		return 0, err
	}

	var timescale uint32
	var duration uint64
	switch head[0] {
	case 0:
		if mvhdSize < 20 {
			return 0, fmt.Errorf("mvhd too short: %d", mvhdSize)
		}
		buf := make([]byte, 16) // creation(4) modification(4) timescale(4) duration(4)
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, err
		}
		timescale = binary.BigEndian.Uint32(buf[8:12])
		duration = uint64(binary.BigEndian.Uint32(buf[12:16]))
	case 1:
		if mvhdSize < 32 {
			return 0, fmt.Errorf("mvhd too short: %d", mvhdSize)
		}
		buf := make([]byte, 28) // creation(8) modification(8) timescale(4) duration(8)
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, err
		}
		timescale = binary.BigEndian.Uint32(buf[16:20])
		duration = binary.BigEndian.Uint64(buf[20:28])
	default:
		return 0, fmt.Errorf("unsupported mvhd version %d", head[0])
	}

	if timescale == 0 {
		return 0, errors.New("mvhd timescale is zero")
	}
	return float64(duration) / float64(timescale), nil
}

// findBox duyệt các box trong [start, end) và trả về vị trí payload + kích thước payload của box typ
func findBox(r io.ReadSeeker, start, end int64, typ string) (int64, int64, error) {
	header := make([]byte, 8)
	for pos := start; pos+8 <= end; {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return 0, 0, err
		}
		if _, err := io.ReadFull(r, header); err != nil {
			return 0, 0, err
		}

		boxSize := int64(binary.BigEndian.Uint32(header[:4]))
		boxType := string(header[4:8])
		headerLen := int64(8)

		switch boxSize {
		case 0: // box kéo dài tới hết vùng
			boxSize = end - pos
		case 1: // largesize 64-bit
			ext := make([]byte, 8)
			if _, err := io.ReadFull(r, ext); err != nil {
				return 0, 0, err
			}
			boxSize = int64(binary.BigEndian.Uint64(ext))
			headerLen = 16
		}
		if boxSize < headerLen || pos+boxSize > end {
			return 0, 0, fmt.Errorf("malformed box %q at %d", boxType, pos)
		}

		if boxType == typ {
			return pos + headerLen, boxSize - headerLen, nil
		}
		pos += boxSize
	}
	return 0, 0, errBoxNotFound
}
