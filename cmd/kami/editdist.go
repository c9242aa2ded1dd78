package main

import (
	"fmt"
	"os"

	"github.com/ughe/kami/editdist"
)

func cer(dist int, blen int) float64 {
	if dist == 0 {
		return 0.0 // Perfect match
	} else if blen == 0 {
		return 1.0 // 100% error if should be empty and not
	} else {
		return float64(dist) / float64(blen)
	}
}

func editdistCommand(srcFilename, dstFilename string, cerOut bool) error {
	bufa, err := os.ReadFile(srcFilename)
	if err != nil {
		return err
	}
	bufb, err := os.ReadFile(dstFilename)
	if err != nil {
		return err
	}
	a, b := []rune(string(bufa)), []rune(string(bufb))
	dist := editdist.Levenshtein(a, b)
	if cerOut {
		fmt.Printf("%.5f\n", cer(dist, len(b)))
	} else {
		fmt.Printf("%d\n", dist)
	}
	return nil
}
