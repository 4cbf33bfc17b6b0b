package clevel

const defaultLibrary = "libleveldb.dylib"
