package kv

var (
	divergenceBucket = []byte("divergence")
	metaBucket       = []byte("meta")

	policyKey = []byte("policy")
)
