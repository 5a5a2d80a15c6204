package categorical

// DefaultJoint returns the canonical study distribution.
func DefaultJoint() JointTable {
	return MustNewJointTable(map[Pair]float64{
		{S: S1, D: D0}: 0.36,
		{S: S2, D: D0}: 0.12,
		{S: S3, D: D0}: 0.12,
		{S: S1, D: D1}: 0.08,
		{S: S2, D: D1}: 0.12,
		{S: S3, D: D1}: 0.20,
	})
}

// DefaultMeans returns the canonical conditional-mean configuration.
// The (S=1, D=1) entry is 0 exactly as supplied.
func DefaultMeans() MeanTable {
	return MustNewMeanTable(map[Pair]float64{
		{S: S1, D: D0}: 4,
		{S: S2, D: D0}: 6,
		{S: S3, D: D0}: 10,
		{S: S1, D: D1}: 0,
		{S: S2, D: D1}: 10,
		{S: S3, D: D1}: 12,
	})
}
