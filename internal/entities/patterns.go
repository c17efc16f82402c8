// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entities

import "regexp"

// Kind is an entity category.
type Kind string

const (
	KindDataset   Kind = "dataset"
	KindModel     Kind = "model"
	KindMetric    Kind = "metric"
	KindFramework Kind = "framework"
)

// recognizer is one deterministic pattern. When group is non-zero only that
// capture group is the entity.
type recognizer struct {
	kind  Kind
	re    *regexp.Regexp
	group int
}

// namedPatterns recognize well-known names. Alternations list longer forms
// first because Go regexps prefer the leftmost alternative.
var namedPatterns = []recognizer{
	{kind: KindModel, re: regexp.MustCompile(`(?i)\b(?:ChatGPT|GPT-?[0-9]+(?:\.[0-9]+)*[a-z]*|GPT)\b`)},
	{kind: KindModel, re: regexp.MustCompile(`\b(?:DistilBERT|RoBERTa|ALBERT|DeBERTa|SciBERT|BERT)\b`)},
	{kind: KindModel, re: regexp.MustCompile(`\b(?:FLAN-T5|mT5|T5)\b`)},
	{kind: KindModel, re: regexp.MustCompile(`(?i)\b(?:LLaMA|Llama)(?:-?[0-9]+)?\b`)},
	{kind: KindModel, re: regexp.MustCompile(`\b(?:Claude|Gemini|Mistral|Mixtral)\b`)},
	{kind: KindModel, re: regexp.MustCompile(`(?i)\b(?:EfficientNet|DenseNet|ResNet|Inception|VGG)(?:[- ]?[a-z]?[0-9]+)?\b`)},
	{kind: KindModel, re: regexp.MustCompile(`(?i)\bYOLO(?:v[0-9]+)?\b`)},
	{kind: KindModel, re: regexp.MustCompile(`\b(?:Vision Transformer|Swin Transformer|ViT)\b`)},
	{kind: KindModel, re: regexp.MustCompile(`\b(?:Stable Diffusion|DALL-?E(?: ?[0-9])?|CLIP)\b`)},
	{kind: KindModel, re: regexp.MustCompile(`\b(?:Transformer|BiLSTM|LSTM|GRU)\b`)},

	{kind: KindDataset, re: regexp.MustCompile(`(?i)\bImageNet(?:[- ]?[0-9]+k)?\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`\b(?:MS-?COCO|COCO)\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`(?i)\bCIFAR-?(?:100|10)\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`(?i)\b(?:Fashion-?MNIST|MNIST)\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`\bSQuAD(?: ?v?[0-9]+(?:\.[0-9]+)?)?\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`\b(?:SuperGLUE|GLUE)\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`(?i)\bWikiText(?:-?[0-9]+)?\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`\b(?:Common Crawl|C4)\b`)},
	{kind: KindDataset, re: regexp.MustCompile(`\b(?:ADE20K|Cityscapes|Pascal VOC)\b`)},

	{kind: KindMetric, re: regexp.MustCompile(`(?i)\b(?:F1[- ]?score|F1|accuracy|precision|recall)\b`)},
	{kind: KindMetric, re: regexp.MustCompile(`\b(?:BLEU(?:-[0-9])?|ROUGE(?:-[LN0-9]+)?)\b`)},
	{kind: KindMetric, re: regexp.MustCompile(`\b(?:mIoU|mAP|IoU)\b`)},
	{kind: KindMetric, re: regexp.MustCompile(`(?i)\b(?:perplexity|cross-entropy)\b`)},
	{kind: KindMetric, re: regexp.MustCompile(`\b(?:AUC-ROC|AUC|ROC)\b`)},
	{kind: KindMetric, re: regexp.MustCompile(`\b(?:METEOR|CIDEr|SPICE)\b`)},

	{kind: KindFramework, re: regexp.MustCompile(`(?i)\b(?:PyTorch|TensorFlow|Keras|JAX)\b`)},
	{kind: KindFramework, re: regexp.MustCompile(`(?i)\bHugging ?Face\b`)},
	{kind: KindFramework, re: regexp.MustCompile(`(?i)\b(?:scikit-learn|sklearn)\b`)},
}

// shapePatterns recognize naming conventions rather than names. They only
// claim text no named pattern matched.
var shapePatterns = []recognizer{
	// An acronym next to "dataset", "corpus" or "benchmark".
	{kind: KindDataset, re: regexp.MustCompile(`\b([A-Z][A-Z0-9-]*[A-Z0-9])\s+(?:data ?sets?|corpus|corpora|benchmarks?)\b`), group: 1},
	{kind: KindDataset, re: regexp.MustCompile(`\b(?:data ?sets?|corpus|corpora|benchmarks?)\s+(?:called\s+|named\s+)?([A-Z][A-Z0-9-]*[A-Z0-9])\b`), group: 1},
	// A metric name followed by "-score": "BERT-score", "Dice-score".
	{kind: KindMetric, re: regexp.MustCompile(`(?i)\b[a-z][a-z0-9]*-score\b`)},
	// A CamelCase or acronym name with a version: "MobileNet-2", "XLNet-3",
	// "PaLM-540", "AlphaFoldv2".
	{kind: KindModel, re: regexp.MustCompile(`\b[A-Z][a-z]*[A-Z][A-Za-z]*-?v?[0-9]+(?:\.[0-9]+)?[A-Za-z]?\b`)},
}

// kindAliases maps tagger labels onto kinds.
var kindAliases = map[string]Kind{
	"dataset":      KindDataset,
	"datasets":     KindDataset,
	"data set":     KindDataset,
	"corpus":       KindDataset,
	"benchmark":    KindDataset,
	"model":        KindModel,
	"models":       KindModel,
	"architecture": KindModel,
	"metric":       KindMetric,
	"metrics":      KindMetric,
	"measure":      KindMetric,
	"framework":    KindFramework,
	"frameworks":   KindFramework,
	"library":      KindFramework,
	"software":     KindFramework,
	"tool":         KindFramework,
}
