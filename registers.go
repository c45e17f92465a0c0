package ili9341

// Registers (from the ILI9341 datasheet, pp. 83-88).
const (
	ili9341NOP       = 0x00
	ili9341SWRESET   = 0x01 // Software Reset
	ili9341RDDIDIF   = 0x04
	ili9341RDDST     = 0x09
	ili9341RDDPM     = 0x0A
	ili9341RDDMADCTL = 0x0B
	ili9341RDDCOLMOD = 0x0C
	ili9341RDDIM     = 0x0D
	ili9341RDDSDR    = 0x0F
	ili9341SLPIN     = 0x10 // Enter Sleep Mode
	ili9341SLPOUT    = 0x11 // Sleep Out
	ili9341PTLON     = 0x12
	ili9341NORON     = 0x13
	ili9341DINVOFF   = 0x20 // Display Inversion OFF
	ili9341DINVON    = 0x21 // Display Inversion ON
	ili9341GAMSET    = 0x26 // Gamma Set
	ili9341DISPOFF   = 0x28 // Display OFF
	ili9341DISPON    = 0x29 // Display ON
	ili9341CASET     = 0x2A // Column Address Set
	ili9341PASET     = 0x2B // Page Address Set
	ili9341RAMWR     = 0x2C // Memory Write
	ili9341RAMRD     = 0x2E // Memory Read
	ili9341PLTAR     = 0x30
	ili9341VSCRDEF   = 0x33 // Vertical Scrolling Definition
	ili9341MADCTL    = 0x36 // Memory Access Control
	ili9341VSCRSADD  = 0x37 // Vertical Scrolling Start Address
	ili9341IDMOFF    = 0x38
	ili9341IDMON     = 0x39
	ili9341PIXSET    = 0x3A // COLMOD: Interface Pixel Format
	ili9341RAMWRCON  = 0x3C // Memory Write Continue
	ili9341RAMRDCON  = 0x3E // Memory Read Continue
	ili9341WRDISBV   = 0x51 // Write Display Brightness
	ili9341RDDISBV   = 0x52
	ili9341WRCTRLD   = 0x53
	ili9341RDCTRLD   = 0x54
	ili9341WRCABC    = 0x55
	ili9341RDCABC    = 0x56
	ili9341WRCABCMIN = 0x5E
	ili9341RDCABCMIN = 0x5F
	ili9341FRMCTR1   = 0xB1 // Frame Rate Control (Normal Mode/Full Colors)
	ili9341FRMCTR2   = 0xB2
	ili9341FRMCTR3   = 0xB3
	ili9341INVTR     = 0xB4 // Display Inversion Control
	ili9341DISCTRL   = 0xB6 // Display Function Control
	ili9341ETMOD     = 0xB7 // Entry Mode Set
	ili9341PWCTRL1   = 0xC0 // Power Control 1
	ili9341PWCTRL2   = 0xC1 // Power Control 2
	ili9341VMCTRL1   = 0xC5 // VCOM Control 1
	ili9341VMCTRL2   = 0xC7 // VCOM Control 2
	ili9341PWCTRA    = 0xCB // Power Control A
	ili9341PWCTRB    = 0xCF // Power Control B
	ili9341RDID1     = 0xDA
	ili9341RDID2     = 0xDB
	ili9341RDID3     = 0xDC
	ili9341RDID4     = 0xDD
	ili9341PGAMCTRL  = 0xE0 // Positive Gamma Correction
	ili9341NGAMCTRL  = 0xE1 // Negative Gamma Correction
	ili9341DTIMCTA   = 0xE8 // Driver Timing Control A
	ili9341DTIMCTB   = 0xEA // Driver Timing Control B
	ili9341PONSEQCT  = 0xED // Power On Sequence Control
	ili9341ENABLE3G  = 0xF2 // Enable 3 Gamma Control
	ili9341IFCTL     = 0xF6 // Interface Control
	ili9341PUMPRC    = 0xF7 // Pump Ratio Control
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                        byte = 1 << iota // D0: reserved
	_                                         // D1: reserved
	ili9341RowColumnRefresh                   // D2: MH
	ili9341BGROrder                           // D3: BGR
	ili9341LineAddressOrder                   // D4: ML
	ili9341RowColumnExchange                  // D5: MV
	ili9341ColumnAddressOrder                 // D6: MX
	ili9341RowAddressOrder                    // D7: MY
)
