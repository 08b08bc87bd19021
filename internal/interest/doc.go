// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

/*
Package interest implements the local interest model: decaying topic
scores, cumulative keyword counts and per-channel affinity, plus scoring
and discovery queries built on top of them.

# Stores

Three independent documents live in the key-value store:

	topic_scores      map topic -> TopicScore, top 100 by score, decays 0.95/day
	keyword_scores    map keyword -> count, top 200, no decay
	channel_affinity  map channel ID -> ChannelAffinity, never evicted

Every mutation is one kvstore.Store.Update on one key, so concurrent
signals never lose updates.

# Signals

	RecordWatch        topics + keywords from the title, affinity += watch boost
	RecordLike         topics + keywords from the title, affinity += 5
	RecordSubscription topics from the channel name, affinity += 20
	RecordSearch       topics + keywords from the query

# Reading

ScoreVideoInterest and ScoreBatch combine the three stores into an
InterestScore breakdown. GenerateDiscoveryQueries turns top genres and
topics into search queries using a seeded random source.
*/
package interest
