package main

import "github.com/loghound/loghound/cmd/loghound"

func main() { loghound.Execute() }
