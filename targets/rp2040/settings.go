//go:build rp2040 || rp2350

package main

import (
	"encoding/binary"
	"errors"
	"machine"
)

// The settings document lives at the start of the flash data area, behind
// a small header so a blank or half-written sector reads as no settings
// rather than garbage JSON.
var settingsMagic = [4]byte{'Z', 'S', 'S', 'T'}

const settingsHeaderSize = 8 // magic + uint32 length

var errSettingsTooLarge = errors.New("settings document too large")

// FlashStore implements core.SettingsStore on the MCU's spare flash.
type FlashStore struct{}

func NewFlashStore() *FlashStore {
	return &FlashStore{}
}

// Load reads the stored document. A missing or torn header yields no data,
// which the settings layer treats as defaults.
func (s *FlashStore) Load() ([]byte, error) {
	var header [settingsHeaderSize]byte
	if _, err := machine.Flash.ReadAt(header[:], 0); err != nil {
		return nil, err
	}
	if [4]byte(header[:4]) != settingsMagic {
		return nil, nil
	}
	length := binary.LittleEndian.Uint32(header[4:])
	if length == 0 || int64(length) > machine.Flash.Size()-settingsHeaderSize {
		return nil, nil
	}

	data := make([]byte, length)
	if _, err := machine.Flash.ReadAt(data, settingsHeaderSize); err != nil {
		return nil, err
	}
	return data, nil
}

// Save erases and rewrites the document blocks.
func (s *FlashStore) Save(data []byte) error {
	if int64(len(data)) > machine.Flash.Size()-settingsHeaderSize {
		return errSettingsTooLarge
	}

	blockSize := machine.Flash.EraseBlockSize()
	total := int64(settingsHeaderSize + len(data))
	blocks := (total + blockSize - 1) / blockSize
	if err := machine.Flash.EraseBlocks(0, blocks); err != nil {
		return err
	}

	// Pad to the write granularity; JSON never contains 0xFF so the pad
	// bytes cannot be confused with document content.
	writeSize := machine.Flash.WriteBlockSize()
	padded := ((total + writeSize - 1) / writeSize) * writeSize
	buf := make([]byte, padded)
	copy(buf[:4], settingsMagic[:])
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(data)))
	copy(buf[settingsHeaderSize:], data)
	for i := total; i < padded; i++ {
		buf[i] = 0xFF
	}

	_, err := machine.Flash.WriteAt(buf, 0)
	return err
}
