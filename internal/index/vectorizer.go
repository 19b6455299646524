package index

import (
	"math"
	"sort"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 50000

// sparseVector holds non-zero weights with strictly increasing indices.
// Sums are always taken in index order so results are bit-reproducible.
type sparseVector struct {
	idx []int
	val []float64
}

// vectorizer is a fitted tf-idf model over unigrams and bigrams.
type vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// fit learns the vocabulary and smoothed idf weights from docs.
// When the vocabulary exceeds maxFeatures, the most frequent terms across
// the corpus are kept (ties by term order). idf = ln((1+n)/(1+df)) + 1.
func fit(docs []map[string]int, maxFeatures int) *vectorizer {
	total := make(map[string]int)
	df := make(map[string]int)
	for _, counts := range docs {
		for t, c := range counts {
			total[t] += c
			df[t]++
		}
	}

	kept := make([]string, 0, len(total))
	for t := range total {
		kept = append(kept, t)
	}
	if maxFeatures > 0 && len(kept) > maxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if total[kept[i]] != total[kept[j]] {
				return total[kept[i]] > total[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:maxFeatures]
	}
	sort.Strings(kept)

	n := float64(len(docs))
	v := &vectorizer{
		vocab: make(map[string]int, len(kept)),
		idf:   make([]float64, len(kept)),
	}
	for i, t := range kept {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return v
}

// transform projects term counts into the fitted space and l2-normalizes.
// Unknown terms contribute nothing; an all-unknown input yields an empty vector.
func (v *vectorizer) transform(counts map[string]int) sparseVector {
	var sv sparseVector
	for t, c := range counts {
		if i, ok := v.vocab[t]; ok {
			sv.idx = append(sv.idx, i)
			sv.val = append(sv.val, float64(c))
		}
	}
	sort.Sort(byIndex(sv))

	var norm float64
	for k, i := range sv.idx {
		sv.val[k] *= v.idf[i]
		norm += sv.val[k] * sv.val[k]
	}
	if norm == 0 {
		return sparseVector{}
	}
	norm = math.Sqrt(norm)
	for k := range sv.val {
		sv.val[k] /= norm
	}
	return sv
}

// dot computes the inner product of two index-sorted sparse vectors.
func dot(a, b sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.idx) && j < len(b.idx) {
		switch {
		case a.idx[i] == b.idx[j]:
			sum += a.val[i] * b.val[j]
			i++
			j++
		case a.idx[i] < b.idx[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

type byIndex sparseVector

func (s byIndex) Len() int           { return len(s.idx) }
func (s byIndex) Less(i, j int) bool { return s.idx[i] < s.idx[j] }
func (s byIndex) Swap(i, j int) {
	s.idx[i], s.idx[j] = s.idx[j], s.idx[i]
	s.val[i], s.val[j] = s.val[j], s.val[i]
}
