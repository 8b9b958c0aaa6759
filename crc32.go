package synthmark

// crcPolynomial is the reversed CRC-32/ISO-HDLC polynomial used by the
// PNG chunk checksum.
const crcPolynomial = 0xEDB88320

// crcTable is the 256-entry lookup table built by applying the reflected
// polynomial to every byte value.
var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPolynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[i] = c
	}
	return table
}

// checksum computes the CRC-32 over data exactly as the PNG specification
// defines it: running value initialized to all ones, updated byte-by-byte
// via table lookup, inverted at the end. Consuming tools validate this
// bit-for-bit.
func checksum(data []byte) uint32 {
	c := uint32(0xFFFFFFFF)
	for _, b := range data {
		c = crcTable[(c^uint32(b))&0xFF] ^ (c >> 8)
	}
	return c ^ 0xFFFFFFFF
}
