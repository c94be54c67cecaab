package insts

// Op identifies one RV32GC instruction behavior.
type Op uint16

// RV32GC opcodes. The order groups the base ISA first, then the M, A, F, D,
// and C extensions, matching the descriptor list in descriptor.go.
const (
	OpIllegal Op = iota

	// RV32I
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpFENCEI
	OpECALL
	OpEBREAK
	OpURET
	OpSRET
	OpMRET
	OpWFI
	OpSFENCEVMA
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI

	// M extension
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	// A extension
	OpLRW
	OpSCW
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW

	// F extension
	OpFLW
	OpFSW
	OpFMADDS
	OpFMSUBS
	OpFNMSUBS
	OpFNMADDS
	OpFADDS
	OpFSUBS
	OpFMULS
	OpFDIVS
	OpFSQRTS
	OpFSGNJS
	OpFSGNJNS
	OpFSGNJXS
	OpFMINS
	OpFMAXS
	OpFCVTWS
	OpFCVTWUS
	OpFEQS
	OpFLTS
	OpFLES
	OpFCLASSS
	OpFCVTSW
	OpFCVTSWU
	OpFMVXW
	OpFMVWX

	// D extension
	OpFLD
	OpFSD
	OpFMADDD
	OpFMSUBD
	OpFNMSUBD
	OpFNMADDD
	OpFADDD
	OpFSUBD
	OpFMULD
	OpFDIVD
	OpFSQRTD
	OpFSGNJD
	OpFSGNJND
	OpFSGNJXD
	OpFMIND
	OpFMAXD
	OpFCVTSD
	OpFCVTDS
	OpFEQD
	OpFLTD
	OpFLED
	OpFCLASSD
	OpFCVTWD
	OpFCVTWUD
	OpFCVTDW
	OpFCVTDWU

	// C extension, quadrant 0
	OpCADDI4SPN
	OpCFLD
	OpCLW
	OpCFLW
	OpCFSD
	OpCSW
	OpCFSW
	OpDII

	// C extension, quadrant 1
	OpCADDI
	OpCNOP
	OpCJAL
	OpCLI
	OpCLUI
	OpCADDI16SP
	OpCSRLI
	OpCSRAI
	OpCANDI
	OpCSUB
	OpCXOR
	OpCOR
	OpCAND
	OpCJ
	OpCBEQZ
	OpCBNEZ

	// C extension, quadrant 2
	OpCSLLI
	OpCFLDSP
	OpCLWSP
	OpCFLWSP
	OpCMV
	OpCJR
	OpCADD
	OpCJALR
	OpCEBREAK
	OpCFSDSP
	OpCSWSP
	OpCFSWSP

	// NumOps is the number of opcodes including OpIllegal.
	NumOps
)

var opNames = map[Op]string{
	OpIllegal: "illegal",

	OpLUI: "lui", OpAUIPC: "auipc", OpJAL: "jal", OpJALR: "jalr",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge",
	OpBLTU: "bltu", OpBGEU: "bgeu",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori",
	OpORI: "ori", OpANDI: "andi",
	OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpFENCE: "fence", OpFENCEI: "fence.i",
	OpECALL: "ecall", OpEBREAK: "ebreak",
	OpURET: "uret", OpSRET: "sret", OpMRET: "mret", OpWFI: "wfi",
	OpSFENCEVMA: "sfence.vma",
	OpCSRRW: "csrrw", OpCSRRS: "csrrs", OpCSRRC: "csrrc",
	OpCSRRWI: "csrrwi", OpCSRRSI: "csrrsi", OpCSRRCI: "csrrci",

	OpMUL: "mul", OpMULH: "mulh", OpMULHSU: "mulhsu", OpMULHU: "mulhu",
	OpDIV: "div", OpDIVU: "divu", OpREM: "rem", OpREMU: "remu",

	OpLRW: "lr.w", OpSCW: "sc.w",
	OpAMOSWAPW: "amoswap.w", OpAMOADDW: "amoadd.w", OpAMOXORW: "amoxor.w",
	OpAMOANDW: "amoand.w", OpAMOORW: "amoor.w",
	OpAMOMINW: "amomin.w", OpAMOMAXW: "amomax.w",
	OpAMOMINUW: "amominu.w", OpAMOMAXUW: "amomaxu.w",

	OpFLW: "flw", OpFSW: "fsw",
	OpFMADDS: "fmadd.s", OpFMSUBS: "fmsub.s",
	OpFNMSUBS: "fnmsub.s", OpFNMADDS: "fnmadd.s",
	OpFADDS: "fadd.s", OpFSUBS: "fsub.s", OpFMULS: "fmul.s",
	OpFDIVS: "fdiv.s", OpFSQRTS: "fsqrt.s",
	OpFSGNJS: "fsgnj.s", OpFSGNJNS: "fsgnjn.s", OpFSGNJXS: "fsgnjx.s",
	OpFMINS: "fmin.s", OpFMAXS: "fmax.s",
	OpFCVTWS: "fcvt.w.s", OpFCVTWUS: "fcvt.wu.s",
	OpFEQS: "feq.s", OpFLTS: "flt.s", OpFLES: "fle.s",
	OpFCLASSS: "fclass.s",
	OpFCVTSW: "fcvt.s.w", OpFCVTSWU: "fcvt.s.wu",
	OpFMVXW: "fmv.x.w", OpFMVWX: "fmv.w.x",

	OpFLD: "fld", OpFSD: "fsd",
	OpFMADDD: "fmadd.d", OpFMSUBD: "fmsub.d",
	OpFNMSUBD: "fnmsub.d", OpFNMADDD: "fnmadd.d",
	OpFADDD: "fadd.d", OpFSUBD: "fsub.d", OpFMULD: "fmul.d",
	OpFDIVD: "fdiv.d", OpFSQRTD: "fsqrt.d",
	OpFSGNJD: "fsgnj.d", OpFSGNJND: "fsgnjn.d", OpFSGNJXD: "fsgnjx.d",
	OpFMIND: "fmin.d", OpFMAXD: "fmax.d",
	OpFCVTSD: "fcvt.s.d", OpFCVTDS: "fcvt.d.s",
	OpFEQD: "feq.d", OpFLTD: "flt.d", OpFLED: "fle.d",
	OpFCLASSD: "fclass.d",
	OpFCVTWD: "fcvt.w.d", OpFCVTWUD: "fcvt.wu.d",
	OpFCVTDW: "fcvt.d.w", OpFCVTDWU: "fcvt.d.wu",

	OpCADDI4SPN: "c.addi4spn", OpCFLD: "c.fld", OpCLW: "c.lw",
	OpCFLW: "c.flw", OpCFSD: "c.fsd", OpCSW: "c.sw", OpCFSW: "c.fsw",
	OpDII: "dii",
	OpCADDI: "c.addi", OpCNOP: "c.nop", OpCJAL: "c.jal", OpCLI: "c.li",
	OpCLUI: "c.lui", OpCADDI16SP: "c.addi16sp",
	OpCSRLI: "c.srli", OpCSRAI: "c.srai", OpCANDI: "c.andi",
	OpCSUB: "c.sub", OpCXOR: "c.xor", OpCOR: "c.or", OpCAND: "c.and",
	OpCJ: "c.j", OpCBEQZ: "c.beqz", OpCBNEZ: "c.bnez",
	OpCSLLI: "c.slli", OpCFLDSP: "c.fldsp", OpCLWSP: "c.lwsp",
	OpCFLWSP: "c.flwsp",
	OpCMV: "c.mv", OpCJR: "c.jr", OpCADD: "c.add", OpCJALR: "c.jalr",
	OpCEBREAK: "c.ebreak",
	OpCFSDSP: "c.fsdsp", OpCSWSP: "c.swsp", OpCFSWSP: "c.fswsp",
}

// String returns the canonical mnemonic for the opcode.
func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "op(?)"
}
