package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"
	"path"
	"strings"
)

func main() {
	// score command
	scoreSet := flag.NewFlagSet("score", flag.ExitOnError)
	scoreFlags := newSettings(scoreSet)
	image := scoreSet.String("image", "", "Image transcribed by the OCR service (default: the image named in the XML file)")
	jsono := scoreSet.Bool("json", false, "Print the scores on a single JSON line")
	scoreSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [flags] reference prediction\n"+
			"       %s %s [flags] [-image page.jpg] [-provider gcp] page.xml\n\n"+
			"Two paths ending in txt are read as files, other arguments are the texts.\n\n",
			os.Args[0], os.Args[1], os.Args[0], os.Args[1])
		scoreSet.PrintDefaults()
	}

	// editdist command
	editdistSet := flag.NewFlagSet("editdist", flag.ExitOnError)
	cero := editdistSet.Bool("c", false, "Output character error rate instead of levenshtein dist")
	editdistSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [-c] test.txt truth.txt\n\n", os.Args[0], os.Args[1])
		editdistSet.PrintDefaults()
	}

	// ocr command
	ocrSet := flag.NewFlagSet("ocr", flag.ExitOnError)
	usr, err := user.Current()
	if err != nil {
		log.Fatalf("Failed to read user's directory: %v", err)
	}
	keys := ocrSet.String("keys", path.Join(usr.HomeDir, ".aws"), "Path to credentials directory")
	aws_ref := "https://docs.aws.amazon.com/textract/latest/dg/setup-awscli-sdk.html"
	aws_help := "Key files: credentials config\nMore info: " + aws_ref
	awso := ocrSet.Bool("aws", false, "Run AWS Textract OCR. "+aws_help)
	azu_ref := "https://docs.microsoft.com/azure/cognitive-services/cognitive-services-apis-create-account"
	azu_ins := "\nNote: Create a json file with 'subscription_key' and 'endpoint' items"
	azu_help := "Key file: azure.json\nMore info: " + azu_ref + azu_ins
	azuo := ocrSet.Bool("azure", false, "Run Azure CognitiveServices OCR. "+azu_help)
	azro := ocrSet.Bool("azure-read", false, "Run Azure Read API OCR. "+azu_help)
	gcp_ref := "https://cloud.google.com/vision/docs/before-you-begin"
	gcp_help := "Key file: gcp.json\nMore info: " + gcp_ref
	gcpo := ocrSet.Bool("gcp", false, "Run GCP Vision OCR. "+gcp_help)
	ocrSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [-keys=~/keydir/] [-aws] [-azure] [-azure-read] [-gcp] image.jpg\n\n", os.Args[0], os.Args[1])
		ocrSet.PrintDefaults()
	}

	// extract command
	extractSet := flag.NewFlagSet("extract", flag.ExitOnError)
	stato := extractSet.Bool("stat", false, "Combined, human-readable summary of all metadata")
	algoido := extractSet.Bool("algoid", false, "Algorithm ID is composed of the service name and version")
	speedo := extractSet.Bool("speed", false, "Speed is the duration in milliseconds to run OCR")
	dateo := extractSet.Bool("date", false, "Date the OCR was run")
	texto := extractSet.Bool("text", false, "OCR transcription in plaintext, read from the raw response")
	extractSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [-stat] [-algoid] [-speed] [-date] [-text] image.jpg.gcp.json\n\n", os.Args[0], os.Args[1])
		extractSet.PrintDefaults()
	}

	// report command
	reportSet := flag.NewFlagSet("report", flag.ExitOnError)
	reportFlags := newSettings(reportSet)
	pdfo := reportSet.String("o", "kami.pdf", "Output PDF file")
	title := reportSet.String("title", "KaMI scores", "Title of each page")
	reportSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [flags] gt1.txt pred1.txt [gt2.txt pred2.txt ...]\n\n", os.Args[0], os.Args[1])
		reportSet.PrintDefaults()
	}

	// explore command
	exploreSet := flag.NewFlagSet("explore", flag.ExitOnError)
	exploreFlags := newSettings(exploreSet)
	diro := exploreSet.String("o", "explorer", "Output directory")
	exploreSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [flags] gt1.txt pred1.txt [gt2.txt pred2.txt ...]\n\n", os.Args[0], os.Args[1])
		exploreSet.PrintDefaults()
	}

	// annotate command
	annotateSet := flag.NewFlagSet("annotate", flag.ExitOnError)
	boundaryo := annotateSet.Bool("b", true, "Draw the boundary of each line")
	baselineo := annotateSet.Bool("l", true, "Draw the baseline of each line")
	annotatedo := annotateSet.String("o", "", "Output PNG file (default: image.bl.png)")
	annotateSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [-b] [-l] [-o out.png] page.xml [page.jpg]\n\n", os.Args[0], os.Args[1])
		annotateSet.PrintDefaults()
	}

	// serve command
	serveSet := flag.NewFlagSet("serve", flag.ExitOnError)
	serveFlags := newSettings(serveSet)
	addr := serveSet.String("addr", "", "Listen address (default from config, :8080)")
	static := serveSet.String("static", "", "Directory served at / (e.g. the explorer directory)")
	serveSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s [flags]\n\n", os.Args[0], os.Args[1])
		serveSet.PrintDefaults()
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <command> [arguments]\n\nThe commands are:\n\n"+
			strings.Repeat("\t%v\n", 8)+"\n", os.Args[0],
			"score   \t score a prediction against its reference",
			"editdist\t calculate levenshtein distance of two text files",
			"ocr     \t execute ocr on selected providers",
			"extract \t extract metadata from a saved ocr result",
			"report  \t write the scores of text pairs to a pdf",
			"explore \t write the scores of text pairs to a static explorer",
			"annotate\t draw the lines of a page or alto file on its image",
			"serve   \t serve the scoring api over http",
		)
		flag.PrintDefaults()
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "score":
		scoreSet.Parse(os.Args[2:])
		if scoreSet.NArg() != 1 && scoreSet.NArg() != 2 {
			scoreSet.Usage()
			os.Exit(1)
		}
		err = scoreCommand(scoreFlags, scoreSet.Args(), *image, *jsono)
	case "editdist":
		editdistSet.Parse(os.Args[2:])
		if editdistSet.NArg() != 2 {
			editdistSet.Usage()
			os.Exit(1)
		}
		err = editdistCommand(editdistSet.Arg(0), editdistSet.Arg(1), *cero)
	case "ocr":
		ocrSet.Parse(os.Args[2:])
		if ocrSet.NArg() < 1 {
			ocrSet.Usage()
			os.Exit(1)
		}
		if !*awso && !*azuo && !*azro && !*gcpo {
			fmt.Fprintf(os.Stderr, "Error: No service(s) selected.\n")
			ocrSet.Usage()
			os.Exit(1)
		}
		err = ocrCommand(*keys, *awso, *azuo, *azro, *gcpo, ocrSet.Args())
	case "extract":
		extractSet.Parse(os.Args[2:])
		if extractSet.NArg() != 1 {
			extractSet.Usage()
			os.Exit(1)
		}
		n := 0
		for _, o := range []bool{*stato, *algoido, *speedo, *dateo, *texto} {
			if o {
				n++
			}
		}
		if n != 1 {
			fmt.Fprintf(os.Stderr, "Error: please specify exactly one flag.\n\n")
			extractSet.Usage()
			os.Exit(1)
		}
		err = extractCommand(extractSet.Arg(0), *stato, *algoido, *speedo, *dateo, *texto)
	case "report":
		reportSet.Parse(os.Args[2:])
		if reportSet.NArg() < 2 || reportSet.NArg()%2 != 0 {
			reportSet.Usage()
			os.Exit(1)
		}
		err = reportCommand(reportFlags, reportSet.Args(), *pdfo, *title)
	case "explore":
		exploreSet.Parse(os.Args[2:])
		if exploreSet.NArg() < 2 || exploreSet.NArg()%2 != 0 {
			exploreSet.Usage()
			os.Exit(1)
		}
		err = exploreCommand(exploreFlags, exploreSet.Args(), *diro)
	case "annotate":
		annotateSet.Parse(os.Args[2:])
		if annotateSet.NArg() != 1 && annotateSet.NArg() != 2 {
			annotateSet.Usage()
			os.Exit(1)
		}
		if !*boundaryo && !*baselineo {
			fmt.Fprintf(os.Stderr, "Error: nothing to draw.\n")
			os.Exit(1)
		}
		err = annotateCommand(annotateSet.Arg(0), annotateSet.Arg(1), *annotatedo, *boundaryo, *baselineo)
	case "serve":
		serveSet.Parse(os.Args[2:])
		err = serveCommand(serveFlags, *addr, *static)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
