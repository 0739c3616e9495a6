package align

// CalculateQualityIndicators implements spec.md §4.F's
// calculate_quality_indicators: aggregate consistency metrics over a set of
// alignments, plus the indices of low-confidence "problem areas".
func CalculateQualityIndicators(alignments []SentenceAlignment) QualityIndicators {
	if len(alignments) == 0 {
		return QualityIndicators{}
	}

	var sumConfidence, sumPosition, sumLength, sumStructure float64
	var validated int
	var problems []int

	for i, al := range alignments {
		sumConfidence += al.Confidence
		sumPosition += positionConsistency(al)
		sumLength += lengthRatioScore(al.SourceSentence, al.TargetSentence)
		sumStructure += structureScore(al.SourceSentence, al.TargetSentence)
		if al.ValidationStatus == ValidationAccepted || al.Method == MethodUserValidated {
			validated++
		}
		if al.Confidence < 0.5 {
			problems = append(problems, i)
		}
	}

	n := float64(len(alignments))
	return QualityIndicators{
		Overall:                clamp01(sumConfidence / n),
		PositionConsistency:    clamp01(sumPosition / n),
		LengthRatioConsistency: clamp01(sumLength / n),
		StructuralCoherence:    clamp01(sumStructure / n),
		UserValidationRate:     clamp01(float64(validated) / n),
		ProblemAreas:           problems,
	}
}

// positionConsistency scores how close an alignment's source/target
// positions are to each other relative to the larger of the two.
func positionConsistency(al SentenceAlignment) float64 {
	diff := al.SourcePosition - al.TargetPosition
	if diff < 0 {
		diff = -diff
	}
	denom := al.SourcePosition
	if al.TargetPosition > denom {
		denom = al.TargetPosition
	}
	if denom == 0 {
		return 1.0
	}
	return clamp01(1.0 - float64(diff)/float64(denom+1))
}
