package utils

import (
	"encoding/binary"
	"encoding/hex"
)

func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

func HexToBytes(str string) ([]byte, error) {
	bytes, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

func Uint32ToBytes(i uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, i)
	return b
}

func Uint64ToBytes(i uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, i)
	return b
}

// StringToBytes prefixes the string with its byte length, so that adjacent
// fields can never run into each other.
func StringToBytes(s string) []byte {
	b := make([]byte, 0, 4+len(s))
	b = append(b, Uint32ToBytes(uint32(len(s)))...)
	return append(b, s...)
}
