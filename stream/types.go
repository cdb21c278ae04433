// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

// Tuple2 is the pair emitted by CombineLatest2.
type Tuple2[V1, V2 any] struct {
	V1 V1
	V2 V2
}
