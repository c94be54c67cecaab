package insts

// Descriptor describes one instruction encoding: the fixed bits that
// identify it (Value under Mask), its size in bits, and the behavior it
// selects.
type Descriptor struct {
	// Size is the encoding width in bits: 16 or 32.
	Size uint

	// Value holds the fixed bit pattern. For 16-bit forms only bits
	// [15:0] are meaningful.
	Value uint32

	// Mask selects the fixed bits of Value.
	Mask uint32

	// Op is the behavior this encoding selects.
	Op Op
}

// Descriptors lists every RV32GC encoding. Table construction processes the
// list top to bottom and later writes to the same lookup slot overwrite
// earlier ones, so wildcarded forms must precede the exact forms that carve
// slots out of them (C.ADDI4SPN before DII, C.LUI before C.ADDI16SP,
// C.ADD before C.JALR before C.EBREAK).
var Descriptors = []Descriptor{
	// RV32I
	{32, 0x00000037, 0x0000007F, OpLUI},
	{32, 0x00000017, 0x0000007F, OpAUIPC},
	{32, 0x0000006F, 0x0000007F, OpJAL},
	{32, 0x00000067, 0x0000707F, OpJALR},
	{32, 0x00000063, 0x0000707F, OpBEQ},
	{32, 0x00001063, 0x0000707F, OpBNE},
	{32, 0x00004063, 0x0000707F, OpBLT},
	{32, 0x00005063, 0x0000707F, OpBGE},
	{32, 0x00006063, 0x0000707F, OpBLTU},
	{32, 0x00007063, 0x0000707F, OpBGEU},
	{32, 0x00000003, 0x0000707F, OpLB},
	{32, 0x00001003, 0x0000707F, OpLH},
	{32, 0x00002003, 0x0000707F, OpLW},
	{32, 0x00004003, 0x0000707F, OpLBU},
	{32, 0x00005003, 0x0000707F, OpLHU},
	{32, 0x00000023, 0x0000707F, OpSB},
	{32, 0x00001023, 0x0000707F, OpSH},
	{32, 0x00002023, 0x0000707F, OpSW},
	{32, 0x00000013, 0x0000707F, OpADDI},
	{32, 0x00002013, 0x0000707F, OpSLTI},
	{32, 0x00003013, 0x0000707F, OpSLTIU},
	{32, 0x00004013, 0x0000707F, OpXORI},
	{32, 0x00006013, 0x0000707F, OpORI},
	{32, 0x00007013, 0x0000707F, OpANDI},
	{32, 0x00001013, 0xFE00707F, OpSLLI},
	{32, 0x00005013, 0xFE00707F, OpSRLI},
	{32, 0x40005013, 0xFE00707F, OpSRAI},
	{32, 0x00000033, 0xFE00707F, OpADD},
	{32, 0x40000033, 0xFE00707F, OpSUB},
	{32, 0x00001033, 0xFE00707F, OpSLL},
	{32, 0x00002033, 0xFE00707F, OpSLT},
	{32, 0x00003033, 0xFE00707F, OpSLTU},
	{32, 0x00004033, 0xFE00707F, OpXOR},
	{32, 0x00005033, 0xFE00707F, OpSRL},
	{32, 0x40005033, 0xFE00707F, OpSRA},
	{32, 0x00006033, 0xFE00707F, OpOR},
	{32, 0x00007033, 0xFE00707F, OpAND},
	{32, 0x0000000F, 0x0000707F, OpFENCE},
	{32, 0x0000100F, 0x0000707F, OpFENCEI},
	{32, 0x00001073, 0x0000707F, OpCSRRW},
	{32, 0x00002073, 0x0000707F, OpCSRRS},
	{32, 0x00003073, 0x0000707F, OpCSRRC},
	{32, 0x00005073, 0x0000707F, OpCSRRWI},
	{32, 0x00006073, 0x0000707F, OpCSRRSI},
	{32, 0x00007073, 0x0000707F, OpCSRRCI},
	{32, 0x12000073, 0xFE007FFF, OpSFENCEVMA},
	{32, 0x00000073, 0xFFFFFFFF, OpECALL},
	{32, 0x00100073, 0xFFFFFFFF, OpEBREAK},
	{32, 0x00200073, 0xFFFFFFFF, OpURET},
	{32, 0x10200073, 0xFFFFFFFF, OpSRET},
	{32, 0x30200073, 0xFFFFFFFF, OpMRET},
	{32, 0x10500073, 0xFFFFFFFF, OpWFI},

	// M extension
	{32, 0x02000033, 0xFE00707F, OpMUL},
	{32, 0x02001033, 0xFE00707F, OpMULH},
	{32, 0x02002033, 0xFE00707F, OpMULHSU},
	{32, 0x02003033, 0xFE00707F, OpMULHU},
	{32, 0x02004033, 0xFE00707F, OpDIV},
	{32, 0x02005033, 0xFE00707F, OpDIVU},
	{32, 0x02006033, 0xFE00707F, OpREM},
	{32, 0x02007033, 0xFE00707F, OpREMU},

	// A extension
	{32, 0x1000202F, 0xF9F0707F, OpLRW},
	{32, 0x1800202F, 0xF800707F, OpSCW},
	{32, 0x0800202F, 0xF800707F, OpAMOSWAPW},
	{32, 0x0000202F, 0xF800707F, OpAMOADDW},
	{32, 0x2000202F, 0xF800707F, OpAMOXORW},
	{32, 0x6000202F, 0xF800707F, OpAMOANDW},
	{32, 0x4000202F, 0xF800707F, OpAMOORW},
	{32, 0x8000202F, 0xF800707F, OpAMOMINW},
	{32, 0xA000202F, 0xF800707F, OpAMOMAXW},
	{32, 0xC000202F, 0xF800707F, OpAMOMINUW},
	{32, 0xE000202F, 0xF800707F, OpAMOMAXUW},

	// F extension
	{32, 0x00002007, 0x0000707F, OpFLW},
	{32, 0x00002027, 0x0000707F, OpFSW},
	{32, 0x00000043, 0x0600007F, OpFMADDS},
	{32, 0x00000047, 0x0600007F, OpFMSUBS},
	{32, 0x0000004B, 0x0600007F, OpFNMSUBS},
	{32, 0x0000004F, 0x0600007F, OpFNMADDS},
	{32, 0x00000053, 0xFE00007F, OpFADDS},
	{32, 0x08000053, 0xFE00007F, OpFSUBS},
	{32, 0x10000053, 0xFE00007F, OpFMULS},
	{32, 0x18000053, 0xFE00007F, OpFDIVS},
	{32, 0x58000053, 0xFFF0007F, OpFSQRTS},
	{32, 0x20000053, 0xFE00707F, OpFSGNJS},
	{32, 0x20001053, 0xFE00707F, OpFSGNJNS},
	{32, 0x20002053, 0xFE00707F, OpFSGNJXS},
	{32, 0x28000053, 0xFE00707F, OpFMINS},
	{32, 0x28001053, 0xFE00707F, OpFMAXS},
	{32, 0xC0000053, 0xFFF0007F, OpFCVTWS},
	{32, 0xC0100053, 0xFFF0007F, OpFCVTWUS},
	{32, 0xA0002053, 0xFE00707F, OpFEQS},
	{32, 0xA0001053, 0xFE00707F, OpFLTS},
	{32, 0xA0000053, 0xFE00707F, OpFLES},
	{32, 0xE0001053, 0xFFF0707F, OpFCLASSS},
	{32, 0xD0000053, 0xFFF0007F, OpFCVTSW},
	{32, 0xD0100053, 0xFFF0007F, OpFCVTSWU},
	{32, 0xE0000053, 0xFFF0707F, OpFMVXW},
	{32, 0xF0000053, 0xFFF0707F, OpFMVWX},

	// D extension
	{32, 0x00003007, 0x0000707F, OpFLD},
	{32, 0x00003027, 0x0000707F, OpFSD},
	{32, 0x02000043, 0x0600007F, OpFMADDD},
	{32, 0x02000047, 0x0600007F, OpFMSUBD},
	{32, 0x0200004B, 0x0600007F, OpFNMSUBD},
	{32, 0x0200004F, 0x0600007F, OpFNMADDD},
	{32, 0x02000053, 0xFE00007F, OpFADDD},
	{32, 0x0A000053, 0xFE00007F, OpFSUBD},
	{32, 0x12000053, 0xFE00007F, OpFMULD},
	{32, 0x1A000053, 0xFE00007F, OpFDIVD},
	{32, 0x5A000053, 0xFFF0007F, OpFSQRTD},
	{32, 0x22000053, 0xFE00707F, OpFSGNJD},
	{32, 0x22001053, 0xFE00707F, OpFSGNJND},
	{32, 0x22002053, 0xFE00707F, OpFSGNJXD},
	{32, 0x2A000053, 0xFE00707F, OpFMIND},
	{32, 0x2A001053, 0xFE00707F, OpFMAXD},
	{32, 0x40100053, 0xFFF0007F, OpFCVTSD},
	{32, 0x42000053, 0xFFF0007F, OpFCVTDS},
	{32, 0xA2002053, 0xFE00707F, OpFEQD},
	{32, 0xA2001053, 0xFE00707F, OpFLTD},
	{32, 0xA2000053, 0xFE00707F, OpFLED},
	{32, 0xE2001053, 0xFFF0707F, OpFCLASSD},
	{32, 0xC2000053, 0xFFF0007F, OpFCVTWD},
	{32, 0xC2100053, 0xFFF0007F, OpFCVTWUD},
	{32, 0xD2000053, 0xFFF0007F, OpFCVTDW},
	{32, 0xD2100053, 0xFFF0007F, OpFCVTDWU},

	// C extension, quadrant 0
	{16, 0x0000, 0xE003, OpCADDI4SPN},
	{16, 0x2000, 0xE003, OpCFLD},
	{16, 0x4000, 0xE003, OpCLW},
	{16, 0x6000, 0xE003, OpCFLW},
	{16, 0xA000, 0xE003, OpCFSD},
	{16, 0xC000, 0xE003, OpCSW},
	{16, 0xE000, 0xE003, OpCFSW},
	{16, 0x0000, 0xFFFF, OpDII},

	// C extension, quadrant 1
	{16, 0x0001, 0xE003, OpCADDI},
	{16, 0x0001, 0xFFFF, OpCNOP},
	{16, 0x2001, 0xE003, OpCJAL},
	{16, 0x4001, 0xE003, OpCLI},
	{16, 0x6001, 0xE003, OpCLUI},
	{16, 0x6101, 0xEF83, OpCADDI16SP},
	{16, 0x8001, 0xEC03, OpCSRLI},
	{16, 0x8401, 0xEC03, OpCSRAI},
	{16, 0x8801, 0xEC03, OpCANDI},
	{16, 0x8C01, 0xFC63, OpCSUB},
	{16, 0x8C21, 0xFC63, OpCXOR},
	{16, 0x8C41, 0xFC63, OpCOR},
	{16, 0x8C61, 0xFC63, OpCAND},
	{16, 0xA001, 0xE003, OpCJ},
	{16, 0xC001, 0xE003, OpCBEQZ},
	{16, 0xE001, 0xE003, OpCBNEZ},

	// C extension, quadrant 2
	{16, 0x0002, 0xE003, OpCSLLI},
	{16, 0x2002, 0xE003, OpCFLDSP},
	{16, 0x4002, 0xE003, OpCLWSP},
	{16, 0x6002, 0xE003, OpCFLWSP},
	{16, 0x8002, 0xF003, OpCMV},
	{16, 0x8002, 0xF07F, OpCJR},
	{16, 0x9002, 0xF003, OpCADD},
	{16, 0x9002, 0xF07F, OpCJALR},
	{16, 0x9002, 0xFFFF, OpCEBREAK},
	{16, 0xA002, 0xE003, OpCFSDSP},
	{16, 0xC002, 0xE003, OpCSWSP},
	{16, 0xE002, 0xE003, OpCFSWSP},
}
