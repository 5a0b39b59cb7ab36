// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/formats/aiff"
)

// ExampleDecoder_Decode decodes a file and cuts it into 16 kHz mono filter
// blocks.
func ExampleDecoder_Decode() {
	f, err := os.Open("capture.aiff")
	if err != nil {
		log.Fatal(err)
	}

	src, err := aiff.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	mono, err := audio.Conform(src, 16000)
	if err != nil {
		log.Fatal(err)
	}

	blocks, err := audio.NewBlockReader(mono)
	if err != nil {
		log.Fatal(err)
	}
	defer blocks.Close()

	block := make([]int16, 1024)
	count := 0
	for {
		err := blocks.ReadBlock(block)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		count++
	}

	fmt.Printf("%d blocks\n", count)
}
