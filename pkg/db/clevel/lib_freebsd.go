package clevel

const defaultLibrary = "libleveldb.so"
