package clevel

const defaultLibrary = "libleveldb.so.1"
