package crc

// CRC-16 with polynomial 0x1021, MSB first, caller supplied initial value.
// Same running checksum the controller firmware keeps over its settings area.
const CRC16_POLY_1021 uint16 = 0x1021

func CRC16_1021(crc uint16, data byte) uint16 {
	crc ^= uint16(data) << 8
	for i := 0; i < 8; i++ {
		if (crc & 0x8000) != 0 {
			crc = (crc << 1) ^ CRC16_POLY_1021
		} else {
			crc <<= 1
		}
	}
	return crc
}

func CRC16_1021_n(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = CRC16_1021(crc, b)
	}
	return crc
}
